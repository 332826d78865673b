package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"streamguard/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveCloudSyncDuration(op string, duration time.Duration)
	IncCloudSyncErrors(op string)
	ObserveHistoryDuration(duration time.Duration)
	ObserveSnapshotDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cloudSyncDuration *prometheus.HistogramVec
	cloudSyncErrors   *prometheus.CounterVec
	historyDuration   prometheus.Histogram
	snapshotDuration  prometheus.Histogram
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

func (m *MetricsProvider) ObserveCloudSyncDuration(op string, duration time.Duration) {
	m.cloudSyncDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCloudSyncErrors(op string) {
	m.cloudSyncErrors.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) ObserveHistoryDuration(duration time.Duration) {
	m.historyDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveSnapshotDuration(duration time.Duration) {
	m.snapshotDuration.Observe(duration.Seconds())
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
			Name: "streamguard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamguard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamguard_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamguard_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		cloudSyncDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamguard_cloud_sync_duration_seconds",
			Help:    "Duration of remote document store round trips in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		cloudSyncErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamguard_cloud_sync_errors_total",
			Help: "Total number of failed remote document store round trips",
		}, []string{"op"}),

		historyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamguard_history_duration_seconds",
			Help:    "Duration of listening-history lookups in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		snapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamguard_snapshot_duration_seconds",
			Help:    "Duration of local snapshot writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) ObserveCloudSyncDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCloudSyncErrors(_ string)                       {}
func (n *noopMetrics) ObserveHistoryDuration(_ time.Duration)            {}
func (n *noopMetrics) ObserveSnapshotDuration(_ time.Duration)           {}
