// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging across llmcall.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. [Compose] builds one from
// independent parts and [Nop] discards everything. Callers propagate an active
// [Provider] and [Span] through a [context.Context] using [ContextWithObserver]
// and [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext].
//
// Concrete adapters live in sub-packages: zapobs (go.uber.org/zap), promobs
// (Prometheus) and otelobs (OpenTelemetry).
package observability
