package middleware

import (
	"context"
	"time"

	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/providers/ai"
)

// NewTimeoutMiddleware bounds every attempt with timeout. A non-positive
// timeout disables the middleware. When the caller's context already has a
// shorter deadline, that deadline wins.
func NewTimeoutMiddleware(timeout time.Duration) invoke.Middleware {
	return func(next invoke.InvokeFunc) invoke.InvokeFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, call invoke.Call) (ai.RawResult, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, call)
		}
	}
}
