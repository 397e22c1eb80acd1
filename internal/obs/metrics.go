// Package obs holds the prometheus collectors shared across the application.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts ledger mutations by operation name.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kopilka_ledger_mutations_total",
		Help: "Ledger mutations applied, by operation.",
	}, []string{"op"})

	// PersistFailures counts snapshot writes that failed. The in-memory
	// mutation is kept regardless, so this is the only trace of data at risk.
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kopilka_persist_failures_total",
		Help: "Snapshot persistence writes that failed.",
	})

	// HTTPDuration tracks request latency per route and status.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kopilka_http_request_duration_seconds",
		Help:    "HTTP request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
