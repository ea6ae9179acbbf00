// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_classifications_total",
			Help: "Total number of queries classified, by resulting intent type",
		},
		[]string{"intent_type"},
	)

	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intent_classification_duration_seconds",
			Help: "Duration of a classification call in seconds",
		},
		[]string{"path"}, // "rules" or "fallback"
	)

	FallbackInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_fallback_invocations_total",
			Help: "LLM fallback invocations by outcome",
		},
		[]string{"outcome"}, // "success", "timeout", "error", "invalid_response", "unavailable"
	)

	QueryRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_query_rejections_total",
			Help: "Queries rejected before classification, by error code",
		},
		[]string{"error_code"},
	)

	LowConfidenceResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intent_low_confidence_total",
			Help: "Classifications that fell below the fallback threshold",
		},
	)
)
