package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

func swapRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevRegisterer, prevGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevRegisterer
		prometheus.DefaultGatherer = prevGatherer
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCollections("sonkoach", "stored")
	m.IncStrategyWins("hirings", "structured")
	m.SetMetricValue("sonkoach", "hirings", 1009)
	m.ObserveStoreDuration(time.Millisecond)
	m.ObservePassDuration(time.Second)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	swapRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_RecordsCollectionMetrics(t *testing.T) {
	reg := swapRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	p := m.(*MetricsProvider)

	m.IncCollections("sonkoach", "stored")
	m.IncCollections("sonkoach", "stored")
	m.IncCollections("yjgolf", "fetch_failed")
	m.IncStrategyWins("reviews", "salvage")
	m.SetMetricValue("sonkoach", "rating", 4.9)
	m.ObserveStoreDuration(20 * time.Millisecond)
	m.ObservePassDuration(12 * time.Second)
	m.IncRequestsTotal("/history", 200)
	m.IncRequestsTotal("/history", 404)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.collections.WithLabelValues("sonkoach", "stored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.collections.WithLabelValues("yjgolf", "fetch_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.strategyWins.WithLabelValues("reviews", "salvage")))
	assert.Equal(t, 4.9, testutil.ToFloat64(p.metricValues.WithLabelValues("sonkoach", "rating")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requestsTotal.WithLabelValues("/history", "4xx")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "tracker_store_duration_seconds")
	assert.Contains(t, names, "tracker_pass_duration_seconds")
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
