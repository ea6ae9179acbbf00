// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	stderrors "errors"

	"intent-engine/internal/common/errors"
	"intent-engine/internal/common/logger"
	"intent-engine/internal/intent"
	"intent-engine/internal/models"
)

// Config holds the LLM collaborator endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the external GenAI classification endpoint. It implements
// intent.FallbackClassifier. Retry policy, if any, belongs here or below,
// never in the engine; this client performs none.
type Client struct {
	config Config
	client *http.Client
	logger logger.Logger
}

// NewClient creates a fallback client with a bounded request timeout.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.With(map[string]interface{}{
			"component": "llm-client",
		}),
	}
}

// Classify posts the low-confidence candidate to the GenAI endpoint and
// validates the answer. Any malformed or missing field in the response is a
// failure; the engine then degrades to its rule-based result.
func (c *Client) Classify(ctx context.Context, req *intent.FallbackRequest) (*intent.FallbackResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewLLMRequestFailedError(err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/ai/parse-intent", bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.NewLLMRequestFailedError(err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return nil, errors.NewLLMTimeoutError(fmt.Sprintf("fallback call exceeded %s", c.config.Timeout))
	}
	if err != nil {
		return nil, errors.NewLLMRequestFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewLLMRequestFailedError(fmt.Sprintf("status %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewLLMRequestFailedError(err.Error())
	}

	result, err := decodeResponse(payload)
	if err != nil {
		c.logger.WithError(err).Warn("llm response rejected", map[string]interface{}{
			"bytes": len(payload),
		})
		return nil, err
	}

	c.logger.Debug("llm response accepted", map[string]interface{}{
		"intentType":  result.Type,
		"confidence":  result.Confidence,
		"entityCount": len(result.Entities),
	})
	return result, nil
}

// decodeResponse parses and schema-validates the collaborator's answer,
// then maps it onto the closed model enumerations.
func decodeResponse(payload []byte) (*intent.FallbackResult, error) {
	if err := validateResponseSchema(payload); err != nil {
		return nil, err
	}

	var raw struct {
		IntentType string  `json:"intentType"`
		Confidence float64 `json:"confidence"`
		Entities   []struct {
			EntityType string `json:"entityType"`
			EntityID   string `json:"entityId"`
			EntityName string `json:"entityName"`
			RawText    string `json:"rawText"`
		} `json:"entities"`
		Temporal *struct {
			DateFilter string `json:"dateFilter"`
			StartDate  string `json:"startDate"`
			EndDate    string `json:"endDate"`
		} `json:"temporalContext"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.NewLLMResponseInvalidError(err.Error())
	}

	intentType := models.IntentType(raw.IntentType)
	if !intentType.Valid() {
		return nil, errors.NewLLMResponseInvalidError(fmt.Sprintf("unknown intent type %q", raw.IntentType))
	}

	result := &intent.FallbackResult{
		Type:       intentType,
		Confidence: raw.Confidence,
	}

	for _, e := range raw.Entities {
		entityType := models.EntityType(e.EntityType)
		if !entityType.Valid() {
			return nil, errors.NewLLMResponseInvalidError(fmt.Sprintf("unknown entity type %q", e.EntityType))
		}
		if e.EntityID == "" && e.EntityName == "" {
			return nil, errors.NewLLMResponseInvalidError("entity with neither id nor name")
		}
		result.Entities = append(result.Entities, models.ExtractedEntity{
			Type:    entityType,
			ID:      e.EntityID,
			Name:    e.EntityName,
			RawText: e.RawText,
		})
	}

	if raw.Temporal != nil {
		start, err := time.Parse("2006-01-02", raw.Temporal.StartDate)
		if err != nil {
			return nil, errors.NewLLMResponseInvalidError("bad temporal start date: " + err.Error())
		}
		end, err := time.Parse("2006-01-02", raw.Temporal.EndDate)
		if err != nil {
			return nil, errors.NewLLMResponseInvalidError("bad temporal end date: " + err.Error())
		}
		if end.Before(start) {
			return nil, errors.NewLLMResponseInvalidError("temporal end before start")
		}
		result.Temporal = &models.TemporalContext{
			DateFilter: raw.Temporal.DateFilter,
			Start:      start,
			End:        end,
		}
	}

	return result, nil
}
