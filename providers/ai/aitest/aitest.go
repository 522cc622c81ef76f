// Package aitest provides scripted ai.Backend and ai.Acquirer doubles for
// tests of code that drives backends.
package aitest

import (
	"context"
	"errors"
	"sync"

	"github.com/leofalp/llmcall/providers/ai"
)

// ErrScriptExhausted is returned once every scripted step has been consumed.
var ErrScriptExhausted = errors.New("aitest: script exhausted")

// Step is one scripted reply.
type Step struct {
	Result ai.RawResult
	Err    error

	// Panic, when non-nil, makes Invoke panic with this value.
	Panic any
}

// Text scripts a text reply.
func Text(text string) Step { return Step{Result: ai.TextResult(text)} }

// Structured scripts a decoded payload.
func Structured(payload map[string]any) Step { return Step{Result: ai.StructuredResult(payload)} }

// Fail scripts an error.
func Fail(err error) Step { return Step{Err: err} }

// Backend replays a script. The last step repeats when Repeat is set;
// otherwise extra calls fail with ErrScriptExhausted.
type Backend struct {
	Native bool
	Repeat bool

	mu      sync.Mutex
	steps   []Step
	calls   int
	prompts []ai.Prompt

	// JSONFormatted counts WithJSONFormat calls.
	JSONFormatted int
}

// NewBackend returns a text backend replaying steps.
func NewBackend(steps ...Step) *Backend {
	return &Backend{steps: steps}
}

// Invoke implements ai.Backend.
func (b *Backend) Invoke(ctx context.Context, prompt ai.Prompt) (ai.RawResult, error) {
	b.mu.Lock()
	b.prompts = append(b.prompts, prompt)
	i := b.calls
	b.calls++
	var step Step
	switch {
	case i < len(b.steps):
		step = b.steps[i]
	case b.Repeat && len(b.steps) > 0:
		step = b.steps[len(b.steps)-1]
	default:
		b.mu.Unlock()
		return ai.RawResult{}, ErrScriptExhausted
	}
	b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ai.RawResult{}, err
	}
	if step.Panic != nil {
		panic(step.Panic)
	}
	return step.Result, step.Err
}

// SupportsNativeStructuredDecoding implements ai.Backend.
func (b *Backend) SupportsNativeStructuredDecoding() bool {
	return b.Native
}

// WithJSONFormat implements ai.JSONFormatter. The same backend is returned so
// the script and counters stay shared.
func (b *Backend) WithJSONFormat() ai.Backend {
	b.mu.Lock()
	b.JSONFormatted++
	b.mu.Unlock()
	return b
}

// Calls reports how many times Invoke ran.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Prompts returns the prompts received so far.
func (b *Backend) Prompts() []ai.Prompt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ai.Prompt(nil), b.prompts...)
}

// Acquirer hands out the same backend for every spec and records the specs.
type Acquirer struct {
	Backend ai.Backend
	Err     error

	mu    sync.Mutex
	specs []ai.Spec
}

// NewAcquirer returns an Acquirer serving b.
func NewAcquirer(b ai.Backend) *Acquirer {
	return &Acquirer{Backend: b}
}

// Acquire implements ai.Acquirer.
func (a *Acquirer) Acquire(_ context.Context, spec ai.Spec) (ai.Backend, error) {
	a.mu.Lock()
	a.specs = append(a.specs, spec)
	a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Backend, nil
}

// Specs returns the specs requested so far.
func (a *Acquirer) Specs() []ai.Spec {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ai.Spec(nil), a.specs...)
}
