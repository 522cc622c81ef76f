// Package middleware provides built-in attempt middlewares for the structured
// invoker. Each one is an [invoke.Middleware] ready to be passed to
// [invoke.WithMiddleware].
//
// # Available Middleware
//
//   - [NewTimeoutMiddleware]: bounds a single attempt with context.WithTimeout,
//     so a stalled backend uses up one attempt instead of the whole budget.
//
//   - [NewRateLimitMiddleware]: waits on a token bucket before calling the
//     backend. Useful for shared local model servers.
//
//   - [NewRetryMiddleware]: retries transient transport failures (HTTP 429 and
//     5xx) inside one attempt, with exponential backoff and jitter.
//
//   - [NewLoggingMiddleware]: emits zap entries before and after every backend
//     call, with three verbosity levels (Minimal, Standard, Verbose).
//
// # Usage
//
//	inv := invoke.New(registry,
//	    invoke.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2}),
//	        middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: a call travels
//
//	Timeout → Retry → Logging → Backend
//
// and the result travels back in reverse. Whatever error leaves the chain
// counts as one failed attempt of the invocation.
package middleware
