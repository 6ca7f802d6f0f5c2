package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics provides observability for the map pipeline.
type Metrics struct {
	// Pipeline stage latencies: query, reshape, mode, merge, style
	StageLatency *prometheus.HistogramVec

	// Rows returned by flow store queries
	QueryRows prometheus.Histogram

	// Map requests by mode
	MapRequests *prometheus.CounterVec

	// Query cache lookups by result
	CacheLookups *prometheus.CounterVec
}

// New registers the atlas metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_pipeline_stage_duration_seconds",
			Help:    "Duration of map pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}),

		QueryRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlas_flow_query_rows",
			Help:    "Number of flow rows returned per query",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),

		MapRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_map_requests_total",
			Help: "Total map requests by mode",
		}, []string{"mode"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_query_cache_lookups_total",
			Help: "Query cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveRows(n int) {
	if m != nil {
		m.QueryRows.Observe(float64(n))
	}
}

func (m *Metrics) IncrementMapRequest(mode string) {
	if m != nil {
		m.MapRequests.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
