package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCacheInvalidations(n int)
	IncCollections(entity, outcome string)
	IncStrategyWins(metric, strategy string)
	SetMetricValue(entity, metric string, value float64)
	ObserveStoreDuration(duration time.Duration)
	ObservePassDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	invalidations   prometheus.Counter
	collections     *prometheus.CounterVec
	strategyWins    *prometheus.CounterVec
	metricValues    *prometheus.GaugeVec
	storeDuration   prometheus.Histogram
	passDuration    prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncCacheInvalidations(n int) {
	m.invalidations.Add(float64(n))
}

func (m *MetricsProvider) IncCollections(entity, outcome string) {
	m.collections.WithLabelValues(entity, outcome).Inc()
}

func (m *MetricsProvider) IncStrategyWins(metric, strategy string) {
	m.strategyWins.WithLabelValues(metric, strategy).Inc()
}

func (m *MetricsProvider) SetMetricValue(entity, metric string, value float64) {
	m.metricValues.WithLabelValues(entity, metric).Set(value)
}

func (m *MetricsProvider) ObserveStoreDuration(duration time.Duration) {
	m.storeDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePassDuration(duration time.Duration) {
	m.passDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tracker_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tracker_cache_hits_total",
			Help: "Total number of history cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tracker_cache_misses_total",
			Help: "Total number of history cache misses",
		}),

		invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tracker_cache_invalidations_total",
			Help: "History cache entries dropped after a stored merge",
		}),

		collections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_collections_total",
			Help: "Per-entity collection attempts by outcome",
		}, []string{"entity", "outcome"}),

		strategyWins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_strategy_wins_total",
			Help: "Extraction strategy that produced each metric",
		}, []string{"metric", "strategy"}),

		metricValues: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracker_metric_value",
			Help: "Last collected value per entity and metric",
		}, []string{"entity", "metric"}),

		storeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_store_duration_seconds",
			Help:    "Duration of history merge and atomic rewrite in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		passDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_pass_duration_seconds",
			Help:    "Duration of a full collection pass in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCacheInvalidations(_ int)                      {}
func (n *noopMetrics) IncCollections(_, _ string)                       {}
func (n *noopMetrics) IncStrategyWins(_, _ string)                      {}
func (n *noopMetrics) SetMetricValue(_, _ string, _ float64)            {}
func (n *noopMetrics) ObserveStoreDuration(_ time.Duration)             {}
func (n *noopMetrics) ObservePassDuration(_ time.Duration)              {}
