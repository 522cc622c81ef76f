package main

import (
	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/core/invoke/middleware"
	"github.com/leofalp/llmcall/core/parse"
	"github.com/leofalp/llmcall/providers/ai"
	"github.com/leofalp/llmcall/providers/ai/ollama"
	"github.com/leofalp/llmcall/providers/ai/openai"
	"github.com/leofalp/llmcall/providers/observability"
	"github.com/leofalp/llmcall/providers/observability/otelobs"
	"github.com/leofalp/llmcall/providers/observability/promobs"
	"github.com/leofalp/llmcall/providers/observability/zapobs"
	"github.com/leofalp/llmcall/providers/progress"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// registry returns the backends known to the CLI, configured from a.cfg.
func (a *app) registry() *ai.Registry {
	p := a.cfg.Providers
	return ai.NewRegistry(ai.DefaultCatalog()).
		Register(ai.ProviderOllama, ollama.NewFactory(p.Ollama.BaseURL)).
		Register(ai.ProviderOpenAI, openai.NewFactory(p.OpenAI.BaseURL, p.OpenAI.APIKey))
}

// observer sends spans to the global OpenTelemetry provider, metrics to the
// app registry and logs to zap.
func (a *app) observer() observability.Provider {
	return observability.Compose(
		otelobs.FromProvider(otel.GetTracerProvider()),
		promobs.New(a.metrics, a.cfg.Metrics.Namespace),
		zapobs.New(a.logger),
	)
}

func (a *app) extractor() *parse.Extractor {
	return parse.NewExtractor(parse.WithRepair(a.cfg.Invoke.RepairJSON))
}

func (a *app) newInvoker(acquirer ai.Acquirer, sink progress.Sink) *invoke.Invoker {
	ic := a.cfg.Invoke

	logLevel := middleware.LogLevelMinimal
	if a.logger.Core().Enabled(zap.DebugLevel) {
		logLevel = middleware.LogLevelVerbose
	}

	opts := []invoke.Option{
		invoke.WithResolver(a.cfg.Resolver()),
		invoke.WithProgress(progress.Multi(progress.NewLogSink(a.logger), sink)),
		invoke.WithObserver(a.observer()),
		invoke.WithExtractor(a.extractor()),
		invoke.WithDefaultMaxRetries(ic.MaxRetries),
		invoke.WithMiddleware(
			middleware.NewTimeoutMiddleware(ic.AttemptTimeout),
			middleware.NewRateLimitMiddleware(ic.RateLimit.PerSecond, ic.RateLimit.Burst),
			middleware.NewRetryMiddleware(middleware.RetryConfig{}),
			middleware.NewLoggingMiddleware(a.logger.Named("backend"), logLevel),
		),
	}
	if b := ic.Backoff; b.Enabled {
		opts = append(opts, invoke.WithBackoff(invoke.BackoffConfig{
			Initial: b.Initial,
			Max:     b.Max,
			Factor:  b.Factor,
			Jitter:  b.Jitter,
		}))
	}
	return invoke.New(acquirer, opts...)
}
