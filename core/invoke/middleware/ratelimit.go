package middleware

import (
	"context"
	"fmt"

	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/providers/ai"
	"golang.org/x/time/rate"
)

// NewRateLimitMiddleware allows perSecond backend calls per second with the
// given burst. The limiter is shared by every invocation using the returned
// middleware. A non-positive perSecond disables limiting.
func NewRateLimitMiddleware(perSecond float64, burst int) invoke.Middleware {
	if perSecond <= 0 {
		return func(next invoke.InvokeFunc) invoke.InvokeFunc { return next }
	}
	if burst < 1 {
		burst = 1
	}
	return NewLimiterMiddleware(rate.NewLimiter(rate.Limit(perSecond), burst))
}

// NewLimiterMiddleware waits on limiter before each backend call. A wait that
// fails, because the context ended or the wait would outlast its deadline,
// fails the attempt.
func NewLimiterMiddleware(limiter *rate.Limiter) invoke.Middleware {
	return func(next invoke.InvokeFunc) invoke.InvokeFunc {
		return func(ctx context.Context, call invoke.Call) (ai.RawResult, error) {
			if err := limiter.Wait(ctx); err != nil {
				return ai.RawResult{}, fmt.Errorf("rate limit wait: %w", err)
			}
			return next(ctx, call)
		}
	}
}
