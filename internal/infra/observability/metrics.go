package observability

import (
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics of the adapter layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	callDuration  *prometheus.HistogramVec
	adapterErrors *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	clientBuilds  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// metrics in it, so NewMetrics can be called once per test.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "collections_adapter_call_duration_seconds",
				Help:    "Duration of backend adapter calls by adapter and operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"adapter", "operation"},
		),
		adapterErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collections_adapter_errors_total",
				Help: "Failed backend adapter calls by error kind.",
			},
			[]string{"adapter", "kind"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collections_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collections_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		clientBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collections_client_builds_total",
				Help: "Adapter instances built by the client factory.",
			},
			[]string{"mode"},
		),
	}
}

// ObserveCall records the duration of one adapter call and, when err is
// non-nil, counts it under its error kind.
func (m *Metrics) ObserveCall(adapter, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.callDuration.WithLabelValues(adapter, operation).Observe(d.Seconds())
	if err != nil {
		m.adapterErrors.WithLabelValues(adapter, domain.Classify(err).String()).Inc()
	}
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrClientBuild counts one adapter construction.
func (m *Metrics) IncrClientBuild(mode domain.Mode) {
	if m == nil {
		return
	}
	m.clientBuilds.WithLabelValues(string(mode)).Inc()
}

// ClientBuilds returns how many adapters were built for mode.
func (m *Metrics) ClientBuilds(mode domain.Mode) int {
	if m == nil {
		return 0
	}
	return int(getCounterValue(m.clientBuilds, string(mode)))
}

// AdapterErrors returns the error count of adapter for kind.
func (m *Metrics) AdapterErrors(adapter string, kind domain.ErrorKind) int {
	if m == nil {
		return 0
	}
	return int(getCounterValue(m.adapterErrors, adapter, kind.String()))
}

// CacheHitRate returns hits / (hits + misses) for cache, or 0.
func (m *Metrics) CacheHitRate(cache string) float64 {
	if m == nil {
		return 0
	}
	hits := getCounterValue(m.cacheHits, cache)
	misses := getCounterValue(m.cacheMisses, cache)
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

// getCounterValue extracts the current value of a CounterVec child.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
