package promobs

import (
	"context"
	"testing"

	"github.com/leofalp/llmcall/providers/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterProjectsLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test", observability.AttrAgent, observability.AttrOutcome)

	ctx := context.Background()
	m.Counter(observability.MetricInvocations).Add(ctx, 1,
		observability.String(observability.AttrAgent, "sentiment"),
		observability.String(observability.AttrOutcome, "success"),
		observability.Int(observability.AttrAttempt, 1),
	)
	m.Counter(observability.MetricInvocations).Add(ctx, 2,
		observability.String(observability.AttrAgent, "sentiment"),
		observability.String(observability.AttrOutcome, "success"),
	)
	m.Counter(observability.MetricInvocations).Add(ctx, 1)

	vec := m.counters[observability.MetricInvocations]
	require.NotNil(t, vec)
	assert.Equal(t, 3.0, testutil.ToFloat64(vec.WithLabelValues("sentiment", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("", "")))

	count, err := testutil.GatherAndCount(reg, "test_llmcall_invocations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHistogramRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "")

	m.Histogram(observability.MetricInvocationDuration).Record(context.Background(), 0.25,
		observability.String(observability.AttrOutcome, "synthesized"))

	count, err := testutil.GatherAndCount(reg, "llmcall_invocation_duration")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg, "dup")
	second := New(reg, "dup")

	ctx := context.Background()
	first.Counter(observability.MetricAttempts).Add(ctx, 1)
	second.Counter(observability.MetricAttempts).Add(ctx, 1)

	assert.Same(t, first.counters[observability.MetricAttempts], second.counters[observability.MetricAttempts])
	assert.Equal(t, 2.0, testutil.ToFloat64(first.counters[observability.MetricAttempts].WithLabelValues("", "", "", "", "")))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "llmcall_invocation_duration", sanitize("llmcall.invocation.duration"))
	assert.Equal(t, "invoke_agent", sanitize("invoke.agent"))
	assert.Equal(t, "_9lives", sanitize("9lives"))
}
