package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ZidRequestsTotal tracks the number of outbound API calls to Zid.
	ZidRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zid_api_requests_total",
			Help: "Total number of Zid API requests made (by endpoint, method, and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// ZidRequestDuration measures the duration of outbound Zid API calls.
	ZidRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zid_api_request_duration_seconds",
			Help:    "Duration of Zid API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// OAuthCallbacksTotal counts callback requests by outcome.
	OAuthCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zid_oauth_callbacks_total",
			Help: "Number of Zid OAuth callbacks handled, by outcome.",
		},
		[]string{"outcome"},
	)

	// NATSPublishErrors tracks NATS publish failures by subject.
	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures by subject.",
		},
		[]string{"subject"},
	)
)

// Callback outcomes.
const (
	OutcomeMissingCode    = "missing_code"
	OutcomeTokenFailed    = "token_failed"
	OutcomeProfileMissing = "profile_missing"
	OutcomeCompleted      = "completed"
)

// ObserveZidRequest records one outbound Zid call. status 0 means no response was received.
func ObserveZidRequest(endpoint, method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ZidRequestsTotal.WithLabelValues(endpoint, method, label).Inc()
	ZidRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// IncCallback increments the callback counter for the given outcome.
func IncCallback(outcome string) {
	OAuthCallbacksTotal.WithLabelValues(outcome).Inc()
}

// IncNATSPublishError increments the NATS publish error counter for the given subject.
func IncNATSPublishError(subject string) {
	NATSPublishErrors.WithLabelValues(subject).Inc()
}
