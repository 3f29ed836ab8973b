package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Export outcomes.
const (
	outcomeOK          = "ok"
	outcomeClientError = "client_error"
	outcomeServerError = "server_error"
)

var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citylex_exports_total",
		Help: "Total number of export requests by outcome",
	}, []string{"outcome"})

	exportRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citylex_export_rows_total",
		Help: "Total number of rows written by successful exports",
	})

	exportBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citylex_export_bytes_total",
		Help: "Total bytes of export bodies served",
	})

	exportDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citylex_export_duration_seconds",
		Help:    "Time taken to build an export body",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
)
