package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CacheLookup("hit")
	m.CacheLookup("hit")
	m.CacheLookup("miss")
	m.ProviderRequest("RSI", "ok", 150*time.Millisecond)
	m.AnalysisDone("medium", "LONG")
	m.AnalysisFailed("provider_rejected")
	m.Swept(3)
	m.Swept(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("RSI", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("medium", "LONG")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisFailures.WithLabelValues("provider_rejected")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheSwept))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheLookup("hit")
		m.ProviderRequest("SMA", "ok", time.Second)
		m.AnalysisDone("short", "SHORT")
		m.AnalysisFailed("malformed")
		m.Swept(1)
	})
}
