// Package metrics defines the Prometheus instruments for upstream calls,
// caches and name resolution.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache names used as label values.
const (
	CacheCatalog = "catalog"
	CacheYear    = "year"
	CacheWorld   = "world"
)

// Metrics holds all Prometheus metrics for the gateway.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	CacheHits        *prometheus.CounterVec
	CacheMisses      *prometheus.CounterVec
	CacheEvictions   *prometheus.CounterVec
	CacheEntries     *prometheus.GaugeVec
	Resolutions      *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "psdgate_upstream_requests_total",
			Help: "Upstream PSD API requests by operation and HTTP status (502 for connection failures)",
		}, []string{"op", "status"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "psdgate_upstream_request_duration_seconds",
			Help:    "Upstream PSD API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "psdgate_cache_hits_total",
			Help: "Cache hits by cache",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "psdgate_cache_misses_total",
			Help: "Cache misses by cache",
		}, []string{"cache"}),
		CacheEvictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "psdgate_cache_evictions_total",
			Help: "Entries evicted by cache",
		}, []string{"cache"}),
		CacheEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "psdgate_cache_entries",
			Help: "Current number of (commodity, year) entries by year cache",
		}, []string{"cache"}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "psdgate_resolutions_total",
			Help: "Name resolutions by kind (commodity, country) and outcome (resolved, code, unresolved, error)",
		}, []string{"kind", "outcome"}),
	}
}

// ObserveUpstream records one upstream request.
func (m *Metrics) ObserveUpstream(op string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
	m.UpstreamLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// CacheHit increments the hit counter for cache.
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cache).Inc()
}

// CacheMiss increments the miss counter for cache.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(cache).Inc()
}

// CacheEvicted increments the eviction counter for cache.
func (m *Metrics) CacheEvicted(cache string) {
	if m == nil {
		return
	}
	m.CacheEvictions.WithLabelValues(cache).Inc()
}

// SetCacheEntries sets the size gauge of cache.
func (m *Metrics) SetCacheEntries(cache string, n int) {
	if m == nil {
		return
	}
	m.CacheEntries.WithLabelValues(cache).Set(float64(n))
}

// Resolution records a resolution outcome.
func (m *Metrics) Resolution(kind, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind, outcome).Inc()
}
