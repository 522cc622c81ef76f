// Package otelobs adapts an OpenTelemetry tracer to observability.Tracer.
package otelobs

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/llmcall/providers/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used when none is supplied.
const InstrumentationName = "github.com/leofalp/llmcall"

// Tracer implements observability.Tracer.
type Tracer struct {
	tracer trace.Tracer
}

var _ observability.Tracer = (*Tracer)(nil)

// New wraps tracer. A nil tracer selects the global provider's tracer.
func New(tracer trace.Tracer) *Tracer {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}
	return &Tracer{tracer: tracer}
}

// FromProvider builds a Tracer from a TracerProvider.
func FromProvider(tp trace.TracerProvider) *Tracer {
	return New(tp.Tracer(InstrumentationName))
}

func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, s := t.tracer.Start(ctx, name, trace.WithAttributes(KeyValues(attrs...)...))
	span := &otelSpan{span: s}
	return observability.ContextWithSpan(ctx, span), span
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(KeyValues(attrs...)...)
}

func (s *otelSpan) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *otelSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(KeyValues(attrs...)...))
}

// KeyValues converts observability attributes into OpenTelemetry ones.
func KeyValues(attrs ...observability.Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(a.Key+"_ms", v.Milliseconds()))
		case []string:
			out = append(out, attribute.StringSlice(a.Key, v))
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprint(v)))
		}
	}
	return out
}
