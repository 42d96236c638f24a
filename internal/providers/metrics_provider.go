package providers

import (
	"ghstats/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CacheLayerResponse = "response"
	CacheLayerSnapshot = "snapshot"

	FetchUnitWindow  = "window"
	FetchUnitRepo    = "repo"
	FetchUnitSubtask = "subtask"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(layer string)
	IncCacheMisses(layer string)
	ObservePersistenceDuration(duration time.Duration)
	ObserveAggregationDuration(duration time.Duration)
	IncFetchFailures(unit string)
	SetSnapshotsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	aggregationDuration prometheus.Histogram
	fetchFailures       *prometheus.CounterVec
	snapshotsTotal      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(layer string) {
	m.cacheHits.WithLabelValues(layer).Inc()
}

func (m *MetricsProvider) IncCacheMisses(layer string) {
	m.cacheMisses.WithLabelValues(layer).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveAggregationDuration(duration time.Duration) {
	m.aggregationDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncFetchFailures(unit string) {
	m.fetchFailures.WithLabelValues(unit).Inc()
}

func (m *MetricsProvider) SetSnapshotsTotal(count int) {
	m.snapshotsTotal.Set(float64(count))
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
			Name: "ghstats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ghstats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghstats_cache_hits_total",
			Help: "Total number of cache hits per cache layer",
		}, []string{"layer"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghstats_cache_misses_total",
			Help: "Total number of cache misses per cache layer",
		}, []string{"layer"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ghstats_persistence_duration_seconds",
			Help:    "Duration of snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		aggregationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ghstats_aggregation_duration_seconds",
			Help:    "Duration of a full aggregation cycle in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),

		fetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghstats_fetch_failures_total",
			Help: "Upstream fetches that failed open, per unit",
		}, []string{"unit"}),

		snapshotsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ghstats_snapshots_total",
			Help: "Number of live snapshots seen by the last sweep",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveAggregationDuration(_ time.Duration)       {}
func (n *noopMetrics) IncFetchFailures(_ string)                        {}
func (n *noopMetrics) SetSnapshotsTotal(_ int)                          {}
