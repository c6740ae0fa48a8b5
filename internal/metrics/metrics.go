// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UIDsMinted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_uids_minted_total",
			Help: "Total number of identifiers minted per entity kind",
		},
		[]string{"kind"},
	)

	DocumentWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_document_writes_total",
			Help: "Document writes per collection and operation",
		},
		[]string{"collection", "op"},
	)

	LinkSyncFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrar_result_link_sync_failures_total",
			Help: "Best-effort student/result link updates that failed",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
