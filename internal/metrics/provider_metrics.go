// Package metrics defines data source specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Data source counter vectors
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "court_vision",
		Name:      "datasource_requests_total",
		Help:      "Total number of outbound data source requests by outcome",
	}, []string{"source", "operation", "status"})
)

// Data source histogram vectors
var (
	ProviderRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "court_vision",
		Name:      "datasource_request_latency_seconds",
		Help:      "Data source request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source", "operation"})
)

// Data source gauges
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_vision",
		Name:      "datasource_cache_hit_ratio",
		Help:      "Stats response cache hit ratio",
	})

	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_vision",
		Name:      "datasource_cache_items",
		Help:      "Number of entries in the stats response cache",
	})

	OddsQuotaRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_vision",
		Name:      "odds_api_quota_remaining",
		Help:      "Requests remaining on the odds API key as of the last response",
	})
)

// RecordProviderRequest records one outbound request and its outcome.
func RecordProviderRequest(source, operation, status string) {
	ProviderRequestsTotal.WithLabelValues(source, operation, status).Inc()
}

// ObserveProviderLatency records the latency of one outbound request.
func ObserveProviderLatency(source, operation string, durationSeconds float64) {
	ProviderRequestLatency.WithLabelValues(source, operation).Observe(durationSeconds)
}

// UpdateCacheHitRatio updates the stats cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}

// UpdateCacheItems updates the stats cache size gauge.
func UpdateCacheItems(count int) {
	CacheItems.Set(float64(count))
}

// UpdateOddsQuota updates the odds API quota gauge.
func UpdateOddsQuota(remaining float64) {
	OddsQuotaRemaining.Set(remaining)
}
