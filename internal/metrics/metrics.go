// Package metrics exposes Prometheus instrumentation for the humanabi
// service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/malphas-lang/humanabi/item"
)

const namespace = "humanabi"

// Parse outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeParse    = "parse_error"
	OutcomeCapacity = "capacity_exceeded"
	OutcomeBind     = "bind_error"
)

// Metrics owns a private registry so that tests and embedders never collide
// with the global one.
type Metrics struct {
	registry *prometheus.Registry

	parses        *prometheus.CounterVec
	parseDuration prometheus.Histogram
	treeNodes     prometheus.Histogram
	items         *prometheus.CounterVec
	cache         *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.parses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parses_total",
		Help:      "Sources compiled, by outcome.",
	}, []string{"outcome"})

	m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "parse_duration_seconds",
		Help:      "Time spent compiling one source.",
		Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	m.treeNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tree_nodes",
		Help:      "Syntax tree size of successfully parsed sources.",
		Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
	})

	m.items = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_total",
		Help:      "Interface items produced, by kind.",
	}, []string{"kind"})

	m.cache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Result cache lookups, by result.",
	}, []string{"result"})

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.parses, m.parseDuration, m.treeNodes, m.items, m.cache,
		m.requests, m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry all collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveParse records one compilation. nodes is the tree size, or zero
// when parsing failed.
func (m *Metrics) ObserveParse(outcome string, took time.Duration, nodes int) {
	m.parses.WithLabelValues(outcome).Inc()
	m.parseDuration.Observe(took.Seconds())
	if nodes > 0 {
		m.treeNodes.Observe(float64(nodes))
	}
}

// ObserveItems counts the produced items by kind.
func (m *Metrics) ObserveItems(items item.List) {
	for _, it := range items {
		m.items.WithLabelValues(string(it.Kind())).Inc()
	}
}

func (m *Metrics) CacheHit()  { m.cache.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.cache.WithLabelValues("miss").Inc() }

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
