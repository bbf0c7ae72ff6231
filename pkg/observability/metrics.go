// Package observability provides Prometheus metrics and HTTP middleware
// for the API.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

var (
	// RequestsTotal counts HTTP requests by method, route pattern and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lizdek_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lizdek_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ReleaseWritesTotal counts release create/update/delete attempts by outcome.
	ReleaseWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lizdek_release_writes_total",
			Help: "Release writes",
		},
		[]string{"op", "outcome"},
	)

	// RateLimitRejectedTotal counts auth requests refused by the limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lizdek_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ReleaseWritesTotal,
		RateLimitRejectedTotal,
	)
}

// ReleaseWrites records release write outcomes on ReleaseWritesTotal.
type ReleaseWrites struct{}

func (ReleaseWrites) ObserveReleaseWrite(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	ReleaseWritesTotal.WithLabelValues(op, outcome).Inc()
}
