// Package monitoring exposes Prometheus metrics for the guide pipeline and
// samples in-process state into gauges.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestbites_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration is request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guestbites_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// CacheLookups counts result cache lookups by result (hit, miss).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestbites_cache_lookups_total",
			Help: "Result cache lookups",
		},
		[]string{"result"},
	)

	// CacheEntries is the number of entries held by the result cache,
	// including stale ones.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guestbites_cache_entries",
			Help: "Entries in the result cache",
		},
	)

	// ProviderCalls counts place provider calls by outcome.
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestbites_provider_calls_total",
			Help: "Place provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderDuration is place provider latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guestbites_provider_duration_seconds",
			Help:    "Place provider latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// BreakerState is the circuit breaker state per provider
	// (0 closed, 1 open, 2 half-open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guestbites_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"breaker"},
	)

	// GuidesBuilt counts assembled guides by whether they were degraded.
	GuidesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestbites_guides_built_total",
			Help: "Guides assembled",
		},
		[]string{"degraded"},
	)

	// Submissions counts host form submissions by route and result.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestbites_submissions_total",
			Help: "Host form submissions",
		},
		[]string{"route", "result"},
	)
)
