package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks analysis calls by final outcome (ok, no_credential, rate_limited, ...).
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total number of scoreboard analysis requests by outcome.",
		},
		[]string{"outcome"},
	)

	// Measures end-to-end duration of analysis calls.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_request_duration_seconds",
			Help:    "Duration of scoreboard analysis requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms → ~40s
		},
		[]string{"outcome"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_rate_limited_total",
			Help: "Number of analysis requests denied by the rate budget.",
		},
	)

	CredentialOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_operations_total",
			Help: "Credential store operations by operation and status.",
		},
		[]string{"op", "status"},
	)

	NATSPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_total",
			Help: "NATS publish attempts by subject and status.",
		},
		[]string{"subject", "status"},
	)
)

// ObserveDuration records the time taken since start on the given histogram.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// counters are not meant for duration tracking
	}
}

// IncCredentialOp counts one credential operation.
func IncCredentialOp(op, status string) {
	CredentialOpsTotal.WithLabelValues(op, status).Inc()
}

// StartServer exposes /metrics on addr in a background goroutine.
func StartServer(addr string) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, nil) //nolint:errcheck
	}()
}
