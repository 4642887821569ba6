package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Relay outcomes by upstream classification
	RelayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "relay_requests_total",
			Help:      "Chat relay calls to the AI gateway by outcome",
		},
		[]string{"outcome"},
	)

	// Relay latency against the AI gateway
	RelayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "relay_duration_seconds",
			Help:      "AI gateway round-trip duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 75},
		},
	)

	// Conversation lifecycle counters
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "conversations_total",
			Help:      "Conversation lifecycle events",
		},
		[]string{"action"},
	)

	// Persisted message counter
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecoeats",
			Subsystem: "server",
			Name:      "messages_total",
			Help:      "Chat messages persisted",
		},
		[]string{"role"},
	)
)

// Relay outcome label values.
const (
	RelayOutcomeSuccess         = "success"
	RelayOutcomeRateLimited     = "rate_limited"
	RelayOutcomePaymentRequired = "payment_required"
	RelayOutcomeError           = "error"
)
