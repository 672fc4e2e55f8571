package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay outcomes.
const (
	OutcomeReplied       = "replied"
	OutcomeInvalid       = "invalid"
	OutcomeProviderError = "provider_error"
	OutcomeUnexpected    = "unexpected"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support_chat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "support_chat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support_chat",
			Subsystem: "relay",
			Name:      "requests_total",
			Help:      "Relay requests by outcome",
		},
		[]string{"outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "support_chat",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Chat completion call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	TurnsStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support_chat",
			Subsystem: "store",
			Name:      "turns_total",
			Help:      "Chat turns written to the store",
		},
		[]string{"role"},
	)

	StoreErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "support_chat",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed chat turn writes",
		},
	)
)
