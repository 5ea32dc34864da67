// Package metrics provides the centralized Prometheus metrics registry for
// the prop analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BatchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "court_vision",
		Name:      "batch_runs_total",
		Help:      "Total number of batch analysis runs by outcome",
	}, []string{"status"})

	RowsEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "court_vision",
		Name:      "rows_emitted_total",
		Help:      "Total number of result rows emitted across all runs",
	})

	RowsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "court_vision",
		Name:      "rows_skipped_total",
		Help:      "Total number of dropped player-market targets by reason",
	}, []string{"reason"})
)

// Gauge metrics
var (
	LastRunRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_vision",
		Name:      "last_run_rows",
		Help:      "Rows emitted by the most recent batch run",
	})

	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_vision",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the most recent completed batch run",
	})
)

// Histogram metrics
var (
	BatchRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "court_vision",
		Name:      "batch_run_duration_seconds",
		Help:      "Duration of batch analysis runs in seconds",
		Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register batch metrics
		registry.MustRegister(BatchRunsTotal)
		registry.MustRegister(RowsEmittedTotal)
		registry.MustRegister(RowsSkippedTotal)
		registry.MustRegister(LastRunRows)
		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(BatchRunDuration)

		// Register data source metrics
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderRequestLatency)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheItems)
		registry.MustRegister(OddsQuotaRemaining)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRowEmitted records one emitted result row.
func RecordRowEmitted() {
	RowsEmittedTotal.Inc()
}

// RecordRowSkipped records one dropped target with its skip reason.
func RecordRowSkipped(reason string) {
	RowsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordRunCompleted records a finished batch run.
func RecordRunCompleted(rows int, durationSeconds, completedAtUnix float64) {
	BatchRunsTotal.WithLabelValues("completed").Inc()
	BatchRunDuration.Observe(durationSeconds)
	LastRunRows.Set(float64(rows))
	LastRunTimestamp.Set(completedAtUnix)
}

// RecordRunCancelled records a batch run aborted by context cancellation.
func RecordRunCancelled() {
	BatchRunsTotal.WithLabelValues("cancelled").Inc()
}
