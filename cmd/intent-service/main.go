// cmd/intent-service/main.go
package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"intent-engine/internal/common/config"
	stderrs "intent-engine/internal/common/errors"
	"intent-engine/internal/common/logger"
	"intent-engine/internal/common/observability"
	"intent-engine/internal/common/validation"
	"intent-engine/internal/intent"
	"intent-engine/internal/llm"
	"intent-engine/internal/models"
	"intent-engine/internal/session"
)

type classifyRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversationId,omitempty"`
}

var classifyRequestSchema = validation.JSONSchema{
	Type:                 "object",
	Required:             []string{"query"},
	AdditionalProperties: false,
	Properties: map[string]validation.Property{
		"query":          {Type: "string"},
		"conversationId": {Type: "string", MaxLength: intPtr(128)},
	},
}

func intPtr(v int) *int { return &v }

type classifyResponse struct {
	RequestID        string                   `json:"requestId"`
	Intent           *models.Intent           `json:"intent"`
	ActionParameters *models.ActionParameters `json:"actionParameters,omitempty"`
}

type errorResponse struct {
	RequestID string `json:"requestId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

type server struct {
	engine *intent.Engine
	store  *session.Store
	obs    *observability.Observability
	logger logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("info", "console")
		fallbackLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting intent service",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	var fallback intent.FallbackClassifier
	if cfg.APIs.GenAI.BaseURL != "" {
		fallback = llm.NewClient(llm.Config{
			BaseURL: cfg.APIs.GenAI.BaseURL,
			APIKey:  cfg.APIs.GenAI.APIKey,
			Timeout: cfg.GenAITimeout(),
		}, log)
	} else {
		zapLog.Warn("no GenAI endpoint configured, LLM fallback disabled")
		fallback = llm.Disabled()
	}

	engine := intent.New(intent.Config{
		ConfidenceThreshold:   cfg.Engine.ConfidenceThreshold,
		MaxQueryLength:        cfg.Engine.MaxQueryLength,
		MinMeaningfulTokens:   cfg.Engine.MinMeaningfulTokens,
		ContinuationMaxTokens: cfg.Engine.ContinuationMaxTokens,
		WeekStart:             weekStart(cfg.Engine.WeekStart),
		FallbackTimeout:       cfg.GenAITimeout(),
	}, fallback, log)

	var store *session.Store
	if cfg.Session.Enabled {
		client := session.NewClient(cfg.Session.Redis.Address, cfg.Session.Redis.Password, cfg.Session.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			zapLog.Warn("redis unreachable, conversation context disabled", zap.Error(err))
		} else {
			store = session.New(client, cfg.SessionTTL())
		}
		cancel()
	}

	srv := &server{engine: engine, store: store, obs: obs, logger: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ai/parse-intent", srv.handleClassify)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	// Metrics + pprof on a separate listener.
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsMux.Handle("/debug/pprof/", http.DefaultServeMux)
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, metricsMux); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	started := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			RequestID: requestID,
			Code:      "BAD_REQUEST",
			Message:   "failed to read request body",
		})
		return
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			RequestID: requestID,
			Code:      "BAD_REQUEST",
			Message:   "request body is not valid JSON",
		})
		return
	}
	if result := validation.ValidateInput(raw, classifyRequestSchema); !result.Valid {
		writeError(w, http.StatusBadRequest, errorResponse{
			RequestID: requestID,
			Code:      "BAD_REQUEST",
			Message:   "request failed validation",
			Details:   strings.Join(result.GetErrorMessages(), "; "),
		})
		return
	}

	var req classifyRequest
	_ = json.Unmarshal(body, &req)

	var convCtx *models.ConversationContext
	if s.store != nil && req.ConversationID != "" {
		loaded, err := s.store.Get(r.Context(), req.ConversationID)
		if err != nil {
			// Context is an enhancement, not a requirement.
			s.logger.WithError(err).Warn("conversation context unavailable", map[string]interface{}{
				"requestId": requestID,
			})
		} else {
			convCtx = loaded
		}
	}

	result, err := s.engine.ClassifyWithFallback(r.Context(), req.Query, convCtx)
	if err != nil {
		status := http.StatusInternalServerError
		resp := errorResponse{RequestID: requestID, Code: "INTERNAL", Message: "classification failed"}
		if se, ok := err.(*stderrs.StandardError); ok && stderrs.IsValidationError(se) {
			status = http.StatusBadRequest
			resp.Code = string(se.Code)
			resp.Message = se.Message
			resp.Details = se.Details
		}
		writeError(w, status, resp)
		return
	}

	if s.store != nil && req.ConversationID != "" {
		if err := s.store.Record(r.Context(), req.ConversationID, result); err != nil {
			s.logger.WithError(err).Warn("failed to record conversation context", map[string]interface{}{
				"requestId": requestID,
			})
		}
	}

	resp := classifyResponse{RequestID: requestID, Intent: result}
	if result.Type == models.IntentAction {
		params := s.engine.ExtractActionParameters(result)
		resp.ActionParameters = &params
	}

	s.obs.RecordRequest(r.Context(), string(result.Type), result.RequiresLLM)
	s.obs.RecordDuration(r.Context(), time.Since(started), "ok")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func weekStart(name string) time.Weekday {
	if name == "sunday" {
		return time.Sunday
	}
	return time.Monday
}
