// Package promobs exports observability metrics to Prometheus.
//
// Metric names are sanitized ("llmcall.attempts" becomes "llmcall_attempts")
// and every instrument carries the same fixed label set, projected from the
// attributes passed to Add and Record. Missing attributes become empty label
// values.
package promobs

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/leofalp/llmcall/providers/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultLabels are the attribute keys exported as labels when New is called
// without explicit keys.
var DefaultLabels = []string{
	observability.AttrAgent,
	observability.AttrLLMProvider,
	observability.AttrLLMModel,
	observability.AttrOutcome,
	observability.AttrStatus,
}

// Metrics implements observability.Metrics with Prometheus vectors.
type Metrics struct {
	registerer prometheus.Registerer
	namespace  string
	keys       []string
	labels     []string

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

var _ observability.Metrics = (*Metrics)(nil)

// New returns a Metrics registering its collectors on reg (the default
// registerer when nil). namespace is prepended to every metric name.
func New(reg prometheus.Registerer, namespace string, labelKeys ...string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(labelKeys) == 0 {
		labelKeys = DefaultLabels
	}
	labels := make([]string, len(labelKeys))
	for i, k := range labelKeys {
		labels[i] = sanitize(k)
	}
	return &Metrics{
		registerer: reg,
		namespace:  sanitize(namespace),
		keys:       append([]string(nil), labelKeys...),
		labels:     labels,
		counters:   map[string]*prometheus.CounterVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
}

func (m *Metrics) Counter(name string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      sanitize(name) + "_total",
			Help:      "Total of " + name,
		}, m.labels)
		vec = register(m.registerer, vec)
		m.counters[name] = vec
	}
	return &counter{vec: vec, keys: m.keys}
}

func (m *Metrics) Histogram(name string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      sanitize(name),
			Help:      "Distribution of " + name,
			Buckets:   prometheus.DefBuckets,
		}, m.labels)
		vec = register(m.registerer, vec)
		m.histograms[name] = vec
	}
	return &histogram{vec: vec, keys: m.keys}
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

type counter struct {
	vec  *prometheus.CounterVec
	keys []string
}

func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(labelValues(c.keys, attrs)...).Add(float64(value))
}

type histogram struct {
	vec  *prometheus.HistogramVec
	keys []string
}

func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(labelValues(h.keys, attrs)...).Observe(value)
}

func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = observability.Label(attrs, k)
	}
	return values
}

// sanitize maps a dotted metric or attribute name onto the Prometheus
// [a-zA-Z_:][a-zA-Z0-9_:]* alphabet.
func sanitize(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
