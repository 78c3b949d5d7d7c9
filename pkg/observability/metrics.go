// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the walletgate gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for API request
// latencies, ranging from 1ms to 10s.
var APIBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletgate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletgate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// AuthAttemptsTotal counts authentication attempts by mechanism
	// (signature, token, none) and outcome (ok, rejected).
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletgate_auth_attempts_total",
			Help: "Authentication attempts",
		},
		[]string{"mechanism", "outcome"},
	)

	// AuthRejectionsTotal counts pipeline rejections by error kind.
	AuthRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletgate_auth_rejections_total",
			Help: "Pipeline rejections",
		},
		[]string{"kind"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walletgate_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthAttemptsTotal,
		AuthRejectionsTotal,
		RateLimitRejectedTotal,
	)
}
