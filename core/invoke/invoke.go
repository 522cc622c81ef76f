package invoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leofalp/llmcall/core/config"
	"github.com/leofalp/llmcall/core/parse"
	"github.com/leofalp/llmcall/core/schema"
	"github.com/leofalp/llmcall/providers/ai"
	"github.com/leofalp/llmcall/providers/observability"
	"github.com/leofalp/llmcall/providers/progress"
)

// DefaultMaxRetries is the attempt budget used when a request sets none.
const DefaultMaxRetries = 3

// ErrNoAcquirer is the attempt error of an invoker built without an acquirer.
var ErrNoAcquirer = errors.New("invoke: no backend acquirer configured")

// Request is one structured invocation.
type Request struct {
	// Prompt is passed to the backend unchanged.
	Prompt ai.Prompt

	// Schema is the shape of the returned value.
	Schema *schema.Descriptor

	// Agent labels the caller. It selects a per-agent model from the
	// context's config.RunConfig and addresses progress updates; progress is
	// only sent when it is set.
	Agent string

	// MaxRetries is the total number of attempts. Zero or negative selects
	// the invoker default.
	MaxRetries int

	// DefaultFactory supplies the value when every attempt failed. When nil,
	// or when it panics or returns nil, schema.Synthesize is used.
	DefaultFactory func() schema.Value
}

// Outcome says where the returned value came from.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeFactory     Outcome = "factory"
	OutcomeSynthesized Outcome = "synthesized"
)

// Report describes how an invocation went.
type Report struct {
	InvocationID string
	Model        config.ModelConfig
	Attempts     int
	Outcome      Outcome

	// Degraded is true when the value is a fallback rather than a model answer.
	Degraded bool

	// Native is true when the successful attempt used native structured decoding.
	Native bool

	// Strategy is the extraction strategy of the successful text attempt.
	Strategy parse.Strategy

	// DefaultedFields counts schema fields the successful payload left out.
	DefaultedFields int

	// Errors holds one entry per failed attempt, in order.
	Errors []error

	Duration time.Duration
}

// Err joins the attempt errors, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

// Invoker runs structured invocations. It is safe for concurrent use; each
// invocation acquires its own backend.
type Invoker struct {
	acquirer          ai.Acquirer
	resolver          *config.Resolver
	progress          progress.Sink
	observer          observability.Provider
	middlewares       []Middleware
	extractor         *parse.Extractor
	backoff           *BackoffConfig
	defaultMaxRetries int
	newID             func() string
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithResolver sets the model resolver. Default: config.NewResolver(config.DefaultModel).
func WithResolver(r *config.Resolver) Option {
	return func(inv *Invoker) {
		if r != nil {
			inv.resolver = r
		}
	}
}

// WithProgress sets the sink for "Error - retry k/max" updates.
func WithProgress(sink progress.Sink) Option {
	return func(inv *Invoker) {
		if sink != nil {
			inv.progress = sink
		}
	}
}

// WithObserver sets the observability provider. Default: observability.Nop().
func WithObserver(p observability.Provider) Option {
	return func(inv *Invoker) {
		if p != nil {
			inv.observer = p
		}
	}
}

// WithMiddleware appends attempt middlewares. The first one given is the
// outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(inv *Invoker) {
		inv.middlewares = append(inv.middlewares, mws...)
	}
}

// WithExtractor sets the extractor used for text results.
func WithExtractor(e *parse.Extractor) Option {
	return func(inv *Invoker) {
		if e != nil {
			inv.extractor = e
		}
	}
}

// WithBackoff waits between failed attempts. Without it attempts follow
// each other immediately.
func WithBackoff(cfg BackoffConfig) Option {
	return func(inv *Invoker) {
		cfg = cfg.WithDefaults()
		inv.backoff = &cfg
	}
}

// WithDefaultMaxRetries sets the attempt budget for requests that set none.
func WithDefaultMaxRetries(n int) Option {
	return func(inv *Invoker) {
		if n > 0 {
			inv.defaultMaxRetries = n
		}
	}
}

// New returns an Invoker acquiring backends from acquirer.
func New(acquirer ai.Acquirer, opts ...Option) *Invoker {
	inv := &Invoker{
		acquirer:          acquirer,
		resolver:          config.NewResolver(config.DefaultModel),
		progress:          progress.Nop,
		observer:          observability.Nop(),
		extractor:         parse.NewExtractor(),
		defaultMaxRetries: DefaultMaxRetries,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke returns a value of req.Schema. It never fails: see Request for the
// fallback order.
func (inv *Invoker) Invoke(ctx context.Context, req Request) schema.Value {
	v, _ := inv.InvokeWithReport(ctx, req)
	return v
}

// InvokeWithReport is Invoke plus a Report of what happened.
func (inv *Invoker) InvokeWithReport(ctx context.Context, req Request) (value schema.Value, report Report) {
	// Sinks and observers are caller code; a panic there still ends in a value.
	defer func() {
		if r := recover(); r != nil {
			value, report.Outcome = fallback(req)
			report.Degraded = true
			report.Errors = append(report.Errors, fmt.Errorf("%w: %v", ErrAttemptPanicked, r))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = inv.defaultMaxRetries
	}

	model := inv.resolver.Resolve(ctx, req.Agent)
	report.InvocationID = inv.newID()
	report.Model = model

	baseAttrs := []observability.Attribute{
		observability.String(observability.AttrInvocationID, report.InvocationID),
		observability.String(observability.AttrAgent, req.Agent),
		observability.String(observability.AttrSchema, req.Schema.Name()),
		observability.String(observability.AttrLLMModel, model.Name),
		observability.String(observability.AttrLLMProvider, model.Provider),
	}

	ctx = observability.ContextWithObserver(ctx, inv.observer)
	ctx, span := inv.observer.StartSpan(ctx, observability.SpanInvoke,
		append(baseAttrs, observability.Int(observability.AttrMaxRetries, maxRetries))...)
	defer span.End()

	chain, prepErr := inv.prepare(ctx, req, model)

	for n := 1; n <= maxRetries; n++ {
		if err := ctx.Err(); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("invocation abandoned before attempt %d/%d: %w", n, maxRetries, err))
			break
		}

		call := Call{
			InvocationID: report.InvocationID,
			Agent:        req.Agent,
			Model:        model,
			Attempt:      n,
			MaxRetries:   maxRetries,
			Prompt:       req.Prompt,
		}

		var res attempt
		if prepErr != nil {
			res = attempt{err: prepErr}
		} else {
			res = inv.runAttempt(ctx, chain, call, req.Schema)
		}
		report.Attempts = n

		if res.err == nil {
			inv.observer.Counter(observability.MetricAttempts).Add(ctx, 1,
				append(baseAttrs, observability.String(observability.AttrStatus, "success"))...)

			report.Outcome = OutcomeSuccess
			report.Native = res.native
			report.Strategy = res.strategy
			report.DefaultedFields = res.defaulted
			inv.finish(ctx, span, &report, baseAttrs, start)
			return res.value, report
		}

		report.Errors = append(report.Errors, fmt.Errorf("attempt %d/%d: %w", n, maxRetries, res.err))
		inv.attemptFailed(ctx, span, req.Agent, n, maxRetries, res.err, baseAttrs)

		if n < maxRetries && inv.backoff != nil {
			if err := Sleep(ctx, inv.backoff.Delay(n-1)); err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("invocation abandoned during backoff: %w", err))
				break
			}
		}
	}

	value, outcome := fallback(req)
	report.Outcome = outcome
	report.Degraded = true

	span.AddEvent(observability.EventFallback, observability.String(observability.AttrOutcome, string(outcome)))
	inv.observer.Warn(ctx, "all attempts failed, using default response",
		append(baseAttrs,
			observability.Int(observability.AttrAttempt, report.Attempts),
			observability.String(observability.AttrOutcome, string(outcome)),
			observability.Error(report.Err()),
		)...)
	inv.finish(ctx, span, &report, baseAttrs, start)
	return value, report
}

// prepare acquires the backend and builds the attempt chain. Backends without
// native structured decoding are switched to JSON mode.
func (inv *Invoker) prepare(ctx context.Context, req Request, model config.ModelConfig) (chain InvokeFunc, err error) {
	if inv.acquirer == nil {
		return nil, ErrNoAcquirer
	}

	defer func() {
		if r := recover(); r != nil {
			chain, err = nil, fmt.Errorf("backend acquisition panicked: %v", r)
		}
	}()

	spec := ai.Spec{
		Model:        model.Name,
		Provider:     model.Provider,
		OutputSchema: req.Schema.JSONSchema(),
		APIKeys:      config.APIKeys(ctx),
	}
	backend, err := inv.acquirer.Acquire(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire backend for %s: %w", model, err)
	}
	if backend == nil {
		return nil, fmt.Errorf("failed to acquire backend for %s: %w", model, ai.ErrUnknownProvider)
	}

	if !backend.SupportsNativeStructuredDecoding() {
		backend = ai.JSONMode(backend, spec.OutputSchema)
	}
	return buildChain(backend, inv.middlewares), nil
}

func (inv *Invoker) attemptFailed(ctx context.Context, span observability.Span, agent string, n, maxRetries int, err error, baseAttrs []observability.Attribute) {
	span.AddEvent(observability.EventAttemptFailed,
		observability.Int(observability.AttrAttempt, n),
		observability.Error(err),
	)
	inv.observer.Counter(observability.MetricAttempts).Add(ctx, 1,
		append(baseAttrs, observability.String(observability.AttrStatus, "failure"))...)
	inv.observer.Warn(ctx, "structured invocation attempt failed",
		append(baseAttrs,
			observability.Int(observability.AttrAttempt, n),
			observability.Int(observability.AttrMaxRetries, maxRetries),
			observability.Error(err),
		)...)

	if agent != "" {
		inv.progress.Update(agent, fmt.Sprintf("Error - retry %d/%d", n, maxRetries))
	}
}

func (inv *Invoker) finish(ctx context.Context, span observability.Span, report *Report, baseAttrs []observability.Attribute, start time.Time) {
	report.Duration = time.Since(start)

	outcome := observability.String(observability.AttrOutcome, string(report.Outcome))
	span.SetAttributes(outcome, observability.Int(observability.AttrAttempt, report.Attempts))
	if report.Degraded {
		span.SetStatus(observability.StatusError, "fell back to default response")
	} else {
		span.SetStatus(observability.StatusOK, "")
	}

	inv.observer.Counter(observability.MetricInvocations).Add(ctx, 1, append(baseAttrs, outcome)...)
	inv.observer.Histogram(observability.MetricInvocationDuration).Record(ctx, report.Duration.Seconds(), append(baseAttrs, outcome)...)
}

// fallback returns the factory value when there is a usable one, otherwise
// the synthesized default.
func fallback(req Request) (schema.Value, Outcome) {
	if req.DefaultFactory != nil {
		if v, ok := callFactory(req.DefaultFactory); ok {
			return v, OutcomeFactory
		}
	}
	return schema.Synthesize(req.Schema), OutcomeSynthesized
}

func callFactory(factory func() schema.Value) (v schema.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()
	v = factory()
	return v, v != nil
}
