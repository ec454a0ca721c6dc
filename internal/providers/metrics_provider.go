package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"reactbot/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFeatureInvocations(feature, tier string)
	IncUsageDenied(feature string)
	IncCompletionFailures(feature string)
	ObserveCompletionDuration(model string, duration time.Duration)
	AddTranscriptionSegments(count int)
	ObservePersistenceDuration(duration time.Duration)
	SetDocumentsTotal(kind string, count int)
}

// ActivitySource feeds the DAU gauge.
type ActivitySource interface {
	TodayActiveUsers() int
}

type MetricsProvider struct {
	requestsTotal         *prometheus.CounterVec
	requestDuration       *prometheus.HistogramVec
	cacheHits             prometheus.Counter
	cacheMisses           prometheus.Counter
	featureInvocations    *prometheus.CounterVec
	usageDenied           *prometheus.CounterVec
	completionFailures    *prometheus.CounterVec
	completionDuration    *prometheus.HistogramVec
	transcriptionSegments prometheus.Counter
	persistenceDuration   prometheus.Histogram
	documentsTotal        *prometheus.GaugeVec
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

func (m *MetricsProvider) IncFeatureInvocations(feature, tier string) {
	m.featureInvocations.WithLabelValues(feature, tier).Inc()
}

func (m *MetricsProvider) IncUsageDenied(feature string) {
	m.usageDenied.WithLabelValues(feature).Inc()
}

func (m *MetricsProvider) IncCompletionFailures(feature string) {
	m.completionFailures.WithLabelValues(feature).Inc()
}

func (m *MetricsProvider) ObserveCompletionDuration(model string, duration time.Duration) {
	m.completionDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (m *MetricsProvider) AddTranscriptionSegments(count int) {
	m.transcriptionSegments.Add(float64(count))
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetDocumentsTotal(kind string, count int) {
	m.documentsTotal.WithLabelValues(kind).Set(float64(count))
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

func NewMetricsProvider(conf *structures.Config, activity ActivitySource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reactbot_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reactbot_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reactbot_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reactbot_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		featureInvocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reactbot_feature_invocations_total",
			Help: "Feature runs that passed the usage gate",
		}, []string{"feature", "tier"}),

		usageDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reactbot_usage_denied_total",
			Help: "Requests denied by the daily free limit",
		}, []string{"feature"}),

		completionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reactbot_completion_failures_total",
			Help: "Failed completion requests",
		}, []string{"feature"}),

		completionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reactbot_completion_duration_seconds",
			Help:    "Completion request duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"model"}),

		transcriptionSegments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reactbot_transcription_segments_total",
			Help: "Audio segments sent to the speech-to-text API",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reactbot_persistence_duration_seconds",
			Help:    "Duration of backup snapshot operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		documentsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "reactbot_documents_total",
			Help: "Stored documents per kind at the last snapshot",
		}, []string{"kind"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "reactbot_daily_active_users",
		Help: "Distinct users active today",
	}, func() float64 {
		return float64(activity.TodayActiveUsers())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) IncCacheHits()                                       {}
func (n *noopMetrics) IncCacheMisses()                                     {}
func (n *noopMetrics) IncFeatureInvocations(_, _ string)                   {}
func (n *noopMetrics) IncUsageDenied(_ string)                             {}
func (n *noopMetrics) IncCompletionFailures(_ string)                      {}
func (n *noopMetrics) ObserveCompletionDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) AddTranscriptionSegments(_ int)                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)          {}
func (n *noopMetrics) SetDocumentsTotal(_ string, _ int)                   {}
