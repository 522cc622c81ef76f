package invoke

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/llmcall/core/parse"
	"github.com/leofalp/llmcall/core/schema"
	"github.com/leofalp/llmcall/providers/ai"
	"github.com/leofalp/llmcall/providers/observability"
)

// ErrAttemptPanicked wraps a panic recovered during an attempt.
var ErrAttemptPanicked = errors.New("attempt panicked")

// attempt is the result of one bounded-loop iteration: either a value or the
// reason the attempt failed. Nothing else leaves runAttempt.
type attempt struct {
	value     schema.Value
	err       error
	native    bool
	strategy  parse.Strategy
	defaulted int
}

func (inv *Invoker) runAttempt(ctx context.Context, chain InvokeFunc, call Call, d *schema.Descriptor) (res attempt) {
	ctx, span := inv.observer.StartSpan(ctx, observability.SpanAttempt,
		observability.String(observability.AttrInvocationID, call.InvocationID),
		observability.Int(observability.AttrAttempt, call.Attempt),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			res = attempt{err: fmt.Errorf("%w: %v", ErrAttemptPanicked, r)}
		}
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(observability.StatusError, "attempt failed")
		}
	}()

	raw, err := chain(ctx, call)
	if err != nil {
		return attempt{err: err}
	}
	inv.recordUsage(ctx, call, raw.Usage)

	var (
		payload  map[string]any
		strategy = parse.StrategyNone
		native   bool
	)
	switch raw.Kind {
	case ai.RawKindStructured:
		if raw.Payload == nil {
			return attempt{err: ai.ErrEmptyResponse}
		}
		payload, native = raw.Payload, true
	default:
		payload, strategy, err = inv.extractor.ExtractReport(raw.Text)
		if err != nil {
			return attempt{err: err}
		}
	}

	value, err := schema.Instantiate(d, payload)
	if err != nil && !native {
		if unwrapped, ok := inv.extractor.Unwrap(payload); ok {
			if v, uerr := schema.Instantiate(d, unwrapped); uerr == nil {
				value, payload, err = v, unwrapped, nil
			}
		}
	}
	if err != nil {
		return attempt{err: fmt.Errorf("response does not match schema %q: %w", d.Name(), err)}
	}

	defaulted := countDefaulted(d, payload)
	span.SetAttributes(
		observability.String(observability.AttrStrategy, strategy.String()),
		observability.Int(observability.AttrDefaultedFields, defaulted),
	)
	return attempt{value: value, native: native, strategy: strategy, defaulted: defaulted}
}

func (inv *Invoker) recordUsage(ctx context.Context, call Call, usage *ai.Usage) {
	if usage == nil || usage.TotalTokens <= 0 {
		return
	}
	inv.observer.Counter(observability.MetricTokensTotal).Add(ctx, int64(usage.TotalTokens),
		observability.String(observability.AttrAgent, call.Agent),
		observability.String(observability.AttrLLMModel, call.Model.Name),
		observability.String(observability.AttrLLMProvider, call.Model.Provider),
	)
}

// countDefaulted counts schema fields absent or null in payload.
func countDefaulted(d *schema.Descriptor, payload map[string]any) int {
	n := 0
	for _, f := range d.Fields() {
		if payload[f.Name] == nil {
			n++
		}
	}
	return n
}
