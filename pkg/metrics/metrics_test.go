package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementMapRequest("total")
	m.IncrementMapRequest("total")
	m.IncrementMapRequest("rio_diff")
	m.IncrementCacheLookup(CacheHit)
	m.ObserveStage("merge", 20*time.Millisecond)
	m.ObserveRows(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MapRequests.WithLabelValues("total")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MapRequests.WithLabelValues("rio_diff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(CacheHit)))

	count, err := testutil.GatherAndCount(reg, "atlas_pipeline_stage_duration_seconds", "atlas_flow_query_rows")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementMapRequest("total")
		m.IncrementCacheLookup(CacheMiss)
		m.ObserveStage("query", time.Second)
		m.ObserveRows(1)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
