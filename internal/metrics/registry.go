// Package metrics wraps prometheus.Registry with the collectors
// cmd/cdvvsetctl instruments its operations with.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is the prefix for every metric this package registers.
const Namespace = "cdvvset"

// Registry wraps a prometheus.Registry with lazily-created, name-keyed
// collectors, so callers can fetch-or-create a metric without tracking
// its construction site.
type Registry struct {
	reg *prometheus.Registry
	mu  sync.RWMutex

	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		reg:        prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry used by cmd/cdvvsetctl.
func Default() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

func (r *Registry) counter(name, help string, labels ...string) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := promauto.With(r.reg).NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	r.counters[name] = c
	return c
}

func (r *Registry) gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := promauto.With(r.reg).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	r.gauges[name] = g
	return g
}

func (r *Registry) histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.histograms[name]; ok {
		return h
	}
	h := promauto.With(r.reg).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	r.histograms[name] = h
	return h
}

// Handler returns the HTTP handler exposing this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// DurationBuckets are microsecond-to-second buckets suitable for
// sync/resolve latencies on an in-memory data structure.
var DurationBuckets = []float64{
	0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// SyncOutcome labels the outcome of a Sync call for sync_total.
type SyncOutcome string

const (
	SyncDominatedLeft  SyncOutcome = "dominated_left"
	SyncDominatedRight SyncOutcome = "dominated_right"
	SyncConcurrent     SyncOutcome = "concurrent"
	SyncEqual          SyncOutcome = "equal"
)

// ResolverKind labels which resolver ran for resolver_total.
type ResolverKind string

const (
	ResolverLast      ResolverKind = "last"
	ResolverLWW       ResolverKind = "lww"
	ResolverReconcile ResolverKind = "reconcile"
)

// ResolverOrigin labels where the resolved value came from.
type ResolverOrigin string

const (
	OriginAnonymous ResolverOrigin = "anonymous"
	OriginEntry     ResolverOrigin = "entry"
)

// CDVVSetMetrics groups the named collectors cmd/cdvvsetctl instruments
// its sync, update, and resolver operations with.
type CDVVSetMetrics struct {
	SyncTotal          *prometheus.CounterVec
	UpdateTotal        *prometheus.CounterVec
	SyncDurationSecond *prometheus.HistogramVec
	ClockSize          *prometheus.GaugeVec
	ResolverTotal      *prometheus.CounterVec
}

// NewCDVVSetMetrics registers (or fetches, if already registered on r) the
// CDVVSet-specific collectors against r.
func NewCDVVSetMetrics(r *Registry) *CDVVSetMetrics {
	return &CDVVSetMetrics{
		SyncTotal:          r.counter("sync_total", "Total Sync calls by outcome.", "outcome"),
		UpdateTotal:        r.counter("update_total", "Total Update calls by arity.", "arity"),
		SyncDurationSecond: r.histogram("sync_duration_seconds", "Sync call latency.", DurationBuckets),
		ClockSize:          r.gauge("clock_size", "Live value count of the clock stored for a key.", "key"),
		ResolverTotal:      r.counter("resolver_total", "Total resolver invocations by kind and origin.", "kind", "origin"),
	}
}

// ObserveSync records the outcome and latency of one Sync call.
func (m *CDVVSetMetrics) ObserveSync(outcome SyncOutcome, seconds float64) {
	m.SyncTotal.WithLabelValues(string(outcome)).Inc()
	m.SyncDurationSecond.WithLabelValues().Observe(seconds)
}

// ObserveUpdate records one Update2 (arity "2") or Update3 (arity "3") call.
func (m *CDVVSetMetrics) ObserveUpdate(arity string) {
	m.UpdateTotal.WithLabelValues(arity).Inc()
}

// ObserveResolver records one resolver invocation.
func (m *CDVVSetMetrics) ObserveResolver(kind ResolverKind, origin ResolverOrigin) {
	m.ResolverTotal.WithLabelValues(string(kind), string(origin)).Inc()
}

// SetClockSize updates the clock_size gauge for key.
func (m *CDVVSetMetrics) SetClockSize(key string, size int) {
	m.ClockSize.WithLabelValues(key).Set(float64(size))
}
