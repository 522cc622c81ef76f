package observability

import (
	"context"
	"testing"
)

// testContextKey is a custom type for context keys in tests to avoid collisions.
type testContextKey string

func TestSpanFromContext_Empty(t *testing.T) {
	if span := SpanFromContext(context.Background()); span != nil {
		t.Errorf("Expected nil span from empty context, got %v", span)
	}
}

func TestSpanFromContext_WithSpan(t *testing.T) {
	mockSpan := &mockSpan{name: "test-span"}
	ctx := ContextWithSpan(context.Background(), mockSpan)

	if span := SpanFromContext(ctx); span != mockSpan {
		t.Errorf("Expected same span instance, got %v", span)
	}
}

func TestSpanFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), spanContextKey, "not a span")

	if span := SpanFromContext(ctx); span != nil {
		t.Errorf("Expected nil when value is not a Span, got %v", span)
	}
}

func TestContextPropagation_Nested(t *testing.T) {
	span := &mockSpan{name: "parent-span"}
	observer := Nop()

	ctx := ContextWithSpan(context.Background(), span)
	ctx = ContextWithObserver(ctx, observer)
	ctx = context.WithValue(ctx, testContextKey("key"), "value")

	if SpanFromContext(ctx) != span {
		t.Error("Expected span to survive context wrapping")
	}
	if ObserverFromContext(ctx) != observer {
		t.Error("Expected observer to survive context wrapping")
	}
}

func TestObserverFromContext_MissingKey(t *testing.T) {
	if observer := ObserverFromContext(context.Background()); observer != nil {
		t.Errorf("Expected nil from context without observer, got %v", observer)
	}
}

func TestObserverFromContext_NilContext(t *testing.T) {
	//nolint:staticcheck // intentionally passing nil to verify the guard
	if observer := ObserverFromContext(nil); observer != nil {
		t.Errorf("Expected nil from nil context, got %v", observer)
	}
}

// mockSpan for testing
type mockSpan struct {
	name string
}

func (m *mockSpan) End()                                          {}
func (m *mockSpan) SetAttributes(attrs ...Attribute)              {}
func (m *mockSpan) SetStatus(code StatusCode, description string) {}
func (m *mockSpan) RecordError(err error)                         {}
func (m *mockSpan) AddEvent(name string, attrs ...Attribute)      {}
