// internal/intent/engine.go
package intent

import (
	"context"
	"regexp"
	"strings"
	"time"

	"intent-engine/internal/common/errors"
	"intent-engine/internal/common/logger"
	"intent-engine/internal/common/metrics"
	"intent-engine/internal/models"
)

// FallbackRequest carries everything the LLM collaborator needs to improve
// on a low-confidence rule-based result.
type FallbackRequest struct {
	RawQuery  string                      `json:"query"`
	Candidate *models.Intent              `json:"ruleBasedCandidate"`
	Context   *models.ConversationContext `json:"context,omitempty"`
}

// FallbackResult is the collaborator's answer. Confidence is taken as
// reported, clamped to [0,1].
type FallbackResult struct {
	Type       models.IntentType        `json:"intentType"`
	Entities   []models.ExtractedEntity `json:"entities"`
	Confidence float64                  `json:"confidence"`
	Temporal   *models.TemporalContext  `json:"temporalContext,omitempty"`
}

// FallbackClassifier is the LLM collaborator capability. Implementations
// must treat malformed responses as errors; the engine never retries.
type FallbackClassifier interface {
	Classify(ctx context.Context, req *FallbackRequest) (*FallbackResult, error)
}

// Config holds the engine tunables.
type Config struct {
	ConfidenceThreshold   float64
	MaxQueryLength        int
	MinMeaningfulTokens   int
	ContinuationMaxTokens int
	WeekStart             time.Weekday
	FallbackTimeout       time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:   0.7,
		MaxQueryLength:        2000,
		MinMeaningfulTokens:   3,
		ContinuationMaxTokens: 5,
		WeekStart:             time.Monday,
		FallbackTimeout:       3 * time.Second,
	}
}

// Engine classifies free-form queries against the project-management domain.
// One instance is safe for concurrent use: the pattern library is immutable
// and the rule path holds no mutable state across calls.
type Engine struct {
	lib      *Library
	cfg      Config
	fallback FallbackClassifier
	logger   logger.Logger
	now      func() time.Time
}

// New constructs an engine. The fallback collaborator is required but
// substitutable; pass llm.Disabled() (or any always-failing implementation)
// for environments without LLM access.
func New(cfg Config, fallback FallbackClassifier, log logger.Logger) *Engine {
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.7
	}
	if cfg.MaxQueryLength == 0 {
		cfg.MaxQueryLength = 2000
	}
	if cfg.MinMeaningfulTokens == 0 {
		cfg.MinMeaningfulTokens = 3
	}
	if cfg.ContinuationMaxTokens == 0 {
		cfg.ContinuationMaxTokens = 5
	}
	if cfg.FallbackTimeout == 0 {
		cfg.FallbackTimeout = 3 * time.Second
	}
	return &Engine{
		lib:      NewLibrary(),
		cfg:      cfg,
		fallback: fallback,
		logger:   log.With(map[string]interface{}{"component": "intent-engine"}),
		now:      time.Now,
	}
}

// WithClock overrides the reference clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

var whitespace = regexp.MustCompile(`\s+`)

// normalize trims and collapses whitespace while preserving character case,
// so id suffixes keep their raw case in extracted RawText. The lowercased
// form is what lands in Intent.NormalizedQuery.
func normalize(query string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(query), " ")
}

// Classify runs the synchronous rule-based path. It is total over all
// accepted inputs: extraction misses and ruleless queries produce defaults,
// never errors. Only empty or over-length queries are rejected.
func (e *Engine) Classify(query string, convCtx *models.ConversationContext) (*models.Intent, error) {
	started := e.now()

	if strings.TrimSpace(query) == "" {
		metrics.QueryRejections.WithLabelValues(string(errors.ErrCodeEmptyQuery)).Inc()
		return nil, errors.NewEmptyQueryError()
	}
	if len(query) > e.cfg.MaxQueryLength {
		metrics.QueryRejections.WithLabelValues(string(errors.ErrCodeQueryTooLong)).Inc()
		return nil, errors.NewQueryTooLongError(len(query), e.cfg.MaxQueryLength)
	}

	collapsed := normalize(query)
	lowered := strings.ToLower(collapsed)
	tokens := len(strings.Fields(collapsed))

	candidate, rawScore := detectIntent(collapsed)
	entities := extractEntities(e.lib, collapsed)
	temporal, _ := resolveTemporal(e.lib, collapsed, e.now(), e.cfg.WeekStart)

	entities, resolvedIntent, boost := resolveContext(
		e.lib, collapsed, entities, candidate, convCtx, e.cfg.ContinuationMaxTokens)

	confidence := scoreConfidence(rawScore, entities, temporal, boost, tokens, e.cfg.MinMeaningfulTokens)

	result := &models.Intent{
		Type:            resolvedIntent,
		Entities:        entities,
		Confidence:      confidence,
		RawQuery:        query,
		NormalizedQuery: lowered,
		Temporal:        temporal,
		RequiresLLM:     confidence < e.cfg.ConfidenceThreshold,
	}

	metrics.ClassificationsTotal.WithLabelValues(string(result.Type)).Inc()
	metrics.ClassificationDuration.WithLabelValues("rules").Observe(e.now().Sub(started).Seconds())
	if result.RequiresLLM {
		metrics.LowConfidenceResults.Inc()
	}

	e.logger.Debug("query classified", map[string]interface{}{
		"intentType":  result.Type,
		"confidence":  result.Confidence,
		"entityCount": len(result.Entities),
		"requiresLlm": result.RequiresLLM,
	})

	return result, nil
}

// ClassifyWithFallback runs the rule-based path and, when confidence falls
// below the threshold, consults the LLM collaborator. The rule-based result
// is always a safe, immediately returnable fallback: collaborator failures
// are recovered locally and never surfaced to the caller, with RequiresLLM
// left true for observability of the degraded path.
func (e *Engine) ClassifyWithFallback(ctx context.Context, query string, convCtx *models.ConversationContext) (*models.Intent, error) {
	ruleBased, err := e.Classify(query, convCtx)
	if err != nil {
		return nil, err
	}
	if !ruleBased.RequiresLLM {
		return ruleBased, nil
	}

	started := e.now()
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.FallbackTimeout)
	defer cancel()

	res, err := e.fallback.Classify(callCtx, &FallbackRequest{
		RawQuery:  query,
		Candidate: ruleBased,
		Context:   convCtx,
	})
	metrics.ClassificationDuration.WithLabelValues("fallback").Observe(e.now().Sub(started).Seconds())

	if err != nil {
		metrics.FallbackInvocations.WithLabelValues(fallbackOutcome(err)).Inc()
		e.logger.WithError(err).Warn("llm fallback failed, returning rule-based result", map[string]interface{}{
			"intentType": ruleBased.Type,
			"confidence": ruleBased.Confidence,
		})
		return ruleBased, nil
	}

	metrics.FallbackInvocations.WithLabelValues("success").Inc()

	reconciled := &models.Intent{
		Type:            res.Type,
		Entities:        res.Entities,
		Confidence:      clamp01(res.Confidence),
		RawQuery:        ruleBased.RawQuery,
		NormalizedQuery: ruleBased.NormalizedQuery,
		Temporal:        ruleBased.Temporal,
		RequiresLLM:     true,
	}
	if res.Temporal != nil {
		reconciled.Temporal = res.Temporal
	}
	return reconciled, nil
}

func fallbackOutcome(err error) string {
	switch errors.CodeOf(err) {
	case errors.ErrCodeLLMTimeout:
		return "timeout"
	case errors.ErrCodeLLMResponseInvalid:
		return "invalid_response"
	case errors.ErrCodeLLMUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
