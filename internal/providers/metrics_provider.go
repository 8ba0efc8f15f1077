package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"promod/internal/structures"
	"time"
)

const (
	FetchResultOk        = "ok"
	FetchResultBadStatus = "bad_status"
	FetchResultBadBody   = "bad_body"
	FetchResultError     = "error"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetchTotal(result string)
	ObserveFetchDuration(duration time.Duration)
	AddNoticesEmitted(count int)
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	fetchTotal          *prometheus.CounterVec
	fetchDuration       prometheus.Histogram
	noticesEmitted      prometheus.Counter
	persistenceDuration prometheus.Histogram
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

func (m *MetricsProvider) IncFetchTotal(result string) {
	m.fetchTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(duration time.Duration) {
	m.fetchDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddNoticesEmitted(count int) {
	m.noticesEmitted.Add(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
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
			Name: "promod_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promod_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promod_transient_hits_total",
			Help: "Total number of transient cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promod_transient_misses_total",
			Help: "Total number of transient cache misses",
		}),

		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "promod_fetch_total",
			Help: "Remote promotion fetches by result",
		}, []string{"result"}),

		fetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "promod_fetch_duration_seconds",
			Help:    "Duration of remote promotion fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		noticesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promod_notices_emitted_total",
			Help: "Total number of admin notices rendered",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "promod_persistence_duration_seconds",
			Help:    "Duration of transient snapshot operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetchTotal(_ string)                           {}
func (n *noopMetrics) ObserveFetchDuration(_ time.Duration)             {}
func (n *noopMetrics) AddNoticesEmitted(_ int)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
