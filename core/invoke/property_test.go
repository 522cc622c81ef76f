package invoke

import (
	"context"
	"fmt"
	"testing"

	"github.com/leofalp/llmcall/providers/ai/aitest"
	"github.com/leofalp/llmcall/providers/progress"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func genStep() *rapid.Generator[aitest.Step] {
	return rapid.Custom(func(t *rapid.T) aitest.Step {
		switch rapid.IntRange(0, 5).Draw(t, "step") {
		case 0:
			return aitest.Fail(errOffline)
		case 1:
			return aitest.Step{Panic: "backend bug"}
		case 2:
			return aitest.Text(rapid.String().Draw(t, "noise"))
		case 3:
			return aitest.Text(fmt.Sprintf(`{"signal": %q, "confidence": %v}`,
				rapid.SampledFrom([]string{"bullish", "bearish", "neutral", "sideways"}).Draw(t, "signal"),
				rapid.Float64Range(0, 100).Draw(t, "confidence")))
		case 4:
			return aitest.Text("```json\n{\"confidence\": \"high\"}\n```")
		default:
			return aitest.Structured(map[string]any{"reasoning": rapid.String().Draw(t, "reasoning")})
		}
	})
}

func TestProperty_InvokeNeverFails(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		steps := rapid.SliceOfN(genStep(), 0, 6).Draw(rt, "steps")
		maxRetries := rapid.IntRange(1, 5).Draw(rt, "maxRetries")

		b := aitest.NewBackend(steps...)
		b.Native = rapid.Bool().Draw(rt, "native")
		rec := &progress.Recorder{}
		inv := New(aitest.NewAcquirer(b), WithProgress(rec))

		req := request("prop")
		req.MaxRetries = maxRetries
		got, report := inv.InvokeWithReport(context.Background(), req)

		assert.Len(rt, got, signalSchema.Len())
		for _, f := range signalSchema.Fields() {
			assert.Contains(rt, got, f.Name)
		}
		assert.LessOrEqual(rt, b.Calls(), maxRetries)
		assert.Equal(rt, b.Calls(), report.Attempts)
		assert.Len(rt, report.Errors, len(rec.Statuses("prop")))
		if report.Degraded {
			assert.Equal(rt, maxRetries, report.Attempts)
			assert.Len(rt, report.Errors, maxRetries)
		} else {
			assert.Len(rt, report.Errors, report.Attempts-1)
		}
	})
}
