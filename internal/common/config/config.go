// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Engine  EngineConfig  `mapstructure:"engine"`
	APIs    APIsConfig    `mapstructure:"apis"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// EngineConfig holds the classification engine tunables.
type EngineConfig struct {
	ConfidenceThreshold   float64 `mapstructure:"confidence_threshold"`    // fallback gate, default 0.7
	MaxQueryLength        int     `mapstructure:"max_query_length"`        // default 2000
	MinMeaningfulTokens   int     `mapstructure:"min_meaningful_tokens"`   // structural penalty below this, default 3
	ContinuationMaxTokens int     `mapstructure:"continuation_max_tokens"` // context inheritance gate, default 5
	WeekStart             string  `mapstructure:"week_start"`              // "monday" or "sunday"
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"genai"`
}

// SessionConfig holds the Redis-backed conversation context store settings.
type SessionConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	MetricsAddress  string `mapstructure:"metrics_address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GenAITimeout returns the fallback call timeout as a duration.
func (c *Config) GenAITimeout() time.Duration {
	return time.Duration(c.APIs.GenAI.Timeout) * time.Millisecond
}

// SessionTTL returns the conversation context TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTL) * time.Second
}
