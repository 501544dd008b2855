package observability

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements Metrics on a Prometheus registry. Vectors are
// created on first use; their label names are fixed by the tags of that first
// call, later calls fill missing labels with "" and drop unknown ones.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheusMetrics creates a registry carrying the Go and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Registry exposes the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: counterName(name),
			Help: name,
		}, m.labelNames(name, tags))
		m.registry.MustRegister(vec)
		m.counters[name] = vec
	}
	vec.WithLabelValues(m.labelValues(name, tags)...).Add(float64(value))
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promName(name),
			Help: name,
		}, m.labelNames(name, tags))
		m.registry.MustRegister(vec)
		m.gauges[name] = vec
	}
	vec.WithLabelValues(m.labelValues(name, tags)...).Set(value)
}

func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.observe(name, "", prometheus.DefBuckets, value, tags)
}

// Timing records durations in seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name, "_seconds", prometheus.DefBuckets, duration.Seconds(), tags)
}

func (m *PrometheusMetrics) observe(name, suffix string, buckets []float64, value float64, tags []Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(name) + suffix,
			Help:    name,
			Buckets: buckets,
		}, m.labelNames(name, tags))
		m.registry.MustRegister(vec)
		m.histograms[name] = vec
	}
	vec.WithLabelValues(m.labelValues(name, tags)...).Observe(value)
}

// labelNames fixes the label set of a metric. Caller holds mu.
func (m *PrometheusMetrics) labelNames(name string, tags []Tag) []string {
	if names, ok := m.labels[name]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, promName(tag.Key))
	}
	sort.Strings(names)
	m.labels[name] = names
	return names
}

// labelValues orders tag values to match the registered label names. Caller holds mu.
func (m *PrometheusMetrics) labelValues(name string, tags []Tag) []string {
	names := m.labels[name]
	values := make([]string, len(names))
	for _, tag := range tags {
		key := promName(tag.Key)
		if i := sort.SearchStrings(names, key); i < len(names) && names[i] == key {
			values[i] = tag.Value
		}
	}
	return values
}

func counterName(name string) string {
	n := promName(name)
	if strings.HasSuffix(n, "_total") {
		return n
	}
	return n + "_total"
}

// promName maps a dotted metric name onto the Prometheus charset.
func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}
