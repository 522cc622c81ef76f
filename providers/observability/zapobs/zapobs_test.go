package zapobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leofalp/llmcall/providers/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Observer, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return New(zap.New(core)), logs
}

func TestObserverLogsWithFields(t *testing.T) {
	o, logs := newObserved(zapcore.DebugLevel)

	o.Info(context.Background(), "invocation finished",
		observability.String(observability.AttrAgent, "sentiment"),
		observability.Int(observability.AttrAttempt, 2),
		observability.Duration(observability.AttrDuration, time.Second),
	)

	entries := logs.FilterMessage("invocation finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sentiment", fields[observability.AttrAgent])
	assert.EqualValues(t, 2, fields[observability.AttrAttempt])
	assert.Equal(t, time.Second, fields[observability.AttrDuration])
}

func TestSpanLifecycle(t *testing.T) {
	o, logs := newObserved(zapcore.DebugLevel)

	ctx, span := o.StartSpan(context.Background(), observability.SpanInvoke,
		observability.String(observability.AttrSchema, "Signal"))
	assert.Same(t, span, observability.SpanFromContext(ctx))

	span.AddEvent(observability.EventAttemptFailed, observability.Int(observability.AttrAttempt, 1))
	span.RecordError(errors.New("no payload"))
	span.SetStatus(observability.StatusError, "fallback")
	span.End()

	assert.Equal(t, 1, logs.FilterMessage("Span started").Len())
	assert.Equal(t, 1, logs.FilterMessage("Span event").Len())

	ended := logs.FilterMessage("Span ended").All()
	require.Len(t, ended, 1)
	assert.Equal(t, zapcore.WarnLevel, ended[0].Level)
	fields := ended[0].ContextMap()
	assert.Equal(t, "Signal", fields[observability.AttrSchema])
	assert.Equal(t, "error", fields[observability.AttrStatus])
	assert.Equal(t, "no payload", fields["error"])
}

func TestCounterAccumulates(t *testing.T) {
	o, _ := newObserved(zapcore.InfoLevel)

	o.Counter(observability.MetricAttempts).Add(context.Background(), 2)
	o.Counter(observability.MetricAttempts).Add(context.Background(), 3)
	o.Histogram(observability.MetricInvocationDuration).Record(context.Background(), 0.2)

	assert.EqualValues(t, 5, o.CounterValue(observability.MetricAttempts))
	assert.Zero(t, o.CounterValue("missing"))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LLMCALL_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, zapcore.InfoLevel, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, zapcore.ErrorLevel, LevelFromEnv())

	t.Setenv("LLMCALL_LOG_LEVEL", "debug")
	assert.Equal(t, zapcore.DebugLevel, LevelFromEnv())
}
