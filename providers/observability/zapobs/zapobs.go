package zapobs

import (
	"context"
	"sync"
	"time"

	"github.com/leofalp/llmcall/providers/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Observer implements observability.Provider using a zap logger.
type Observer struct {
	logger  *zap.Logger
	metrics *metricsStore
}

// New creates a zap-backed observer. A nil logger yields a no-op logger.
func New(logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{
		logger:  logger,
		metrics: newMetricsStore(),
	}
}

var _ observability.Provider = (*Observer)(nil)

// Logger returns the underlying zap logger.
func (o *Observer) Logger() *zap.Logger {
	return o.logger
}

// Fields converts observability attributes into zap fields.
func Fields(attrs ...observability.Attribute) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case string:
			fields = append(fields, zap.String(attr.Key, v))
		case int:
			fields = append(fields, zap.Int(attr.Key, v))
		case int64:
			fields = append(fields, zap.Int64(attr.Key, v))
		case float64:
			fields = append(fields, zap.Float64(attr.Key, v))
		case bool:
			fields = append(fields, zap.Bool(attr.Key, v))
		case time.Duration:
			fields = append(fields, zap.Duration(attr.Key, v))
		default:
			fields = append(fields, zap.Any(attr.Key, v))
		}
	}
	return fields
}

// --- LOGGING ---

func (o *Observer) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Debug(msg, Fields(attrs...)...)
}

func (o *Observer) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Debug(msg, Fields(attrs...)...)
}

func (o *Observer) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Info(msg, Fields(attrs...)...)
}

func (o *Observer) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Warn(msg, Fields(attrs...)...)
}

func (o *Observer) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Error(msg, Fields(attrs...)...)
}

// --- TRACING ---

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &zapSpan{
		name:      name,
		startTime: time.Now(),
		logger:    o.logger.With(zap.String("span", name)),
		attrs:     attrs,
	}
	span.logger.Debug("Span started", Fields(attrs...)...)
	return observability.ContextWithSpan(ctx, span), span
}

type zapSpan struct {
	name      string
	startTime time.Time
	logger    *zap.Logger
	attrs     []observability.Attribute
	failed    bool
	mu        sync.Mutex
}

func (s *zapSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := append(Fields(s.attrs...), zap.Duration(observability.AttrDuration, time.Since(s.startTime)))
	level := zapcore.InfoLevel
	if s.failed {
		level = zapcore.WarnLevel
	}
	if ce := s.logger.Check(level, "Span ended"); ce != nil {
		ce.Write(fields...)
	}
}

func (s *zapSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *zapSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
		s.failed = true
	}
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *zapSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.Debug("Span error", zap.Error(err))
}

func (s *zapSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.Debug("Span event", append([]zap.Field{zap.String("event", name)}, Fields(attrs...)...)...)
}

// --- METRICS ---

func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name, o.logger)
}

func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name, o.logger)
}

// CounterValue reports the running total of a counter, for tests and
// end-of-run summaries.
func (o *Observer) CounterValue(name string) int64 {
	o.metrics.mu.RLock()
	c, ok := o.metrics.counters[name]
	o.metrics.mu.RUnlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// metricsStore holds metrics in memory (thread-safe)
type metricsStore struct {
	mu         sync.RWMutex
	counters   map[string]*zapCounter
	histograms map[string]*zapHistogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*zapCounter),
		histograms: make(map[string]*zapHistogram),
	}
}

func (m *metricsStore) counter(name string, logger *zap.Logger) *zapCounter {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[name]; ok {
		return c
	}
	c = &zapCounter{name: name, logger: logger}
	m.counters[name] = c
	return c
}

func (m *metricsStore) histogram(name string, logger *zap.Logger) *zapHistogram {
	m.mu.RLock()
	h, ok := m.histograms[name]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histograms[name]; ok {
		return h
	}
	h = &zapHistogram{name: name, logger: logger}
	m.histograms[name] = h
	return h
}

type zapCounter struct {
	name   string
	logger *zap.Logger
	value  int64
	mu     sync.Mutex
}

func (c *zapCounter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	total := c.value
	c.mu.Unlock()

	c.logger.Debug("Counter incremented", append([]zap.Field{
		zap.String("metric", c.name),
		zap.Int64("delta", value),
		zap.Int64("total", total),
	}, Fields(attrs...)...)...)
}

type zapHistogram struct {
	name   string
	logger *zap.Logger
}

func (h *zapHistogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.logger.Debug("Histogram recorded", append([]zap.Field{
		zap.String("metric", h.name),
		zap.Float64("value", value),
	}, Fields(attrs...)...)...)
}
