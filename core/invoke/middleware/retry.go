package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/internal/utils"
	"github.com/leofalp/llmcall/providers/ai"
)

// RetryConfig holds the tuning parameters for the retry middleware. Zero
// values are replaced with the defaults documented below.
type RetryConfig struct {
	// MaxRetries is the number of extra backend calls after the first failure.
	// A value of 2 means the backend is called at most 3 times per attempt.
	// Default: 2.
	MaxRetries int

	// Backoff shapes the wait between transport retries. Zero fields take the
	// invoke.BackoffConfig defaults.
	Backoff invoke.BackoffConfig

	// RetryableFunc returns true when an error should trigger a retry.
	// Default: the error wraps a *utils.HTTPError whose Temporary method
	// reports true (429 and 5xx).
	RetryableFunc func(error) bool
}

// Temporary reports whether err is a transient HTTP failure.
func Temporary(err error) bool {
	var httpErr *utils.HTTPError
	return errors.As(err, &httpErr) && httpErr.Temporary()
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 2
	}
	config.Backoff = config.Backoff.WithDefaults()
	if config.RetryableFunc == nil {
		config.RetryableFunc = Temporary
	}
}

// NewRetryMiddleware retries transient backend failures within one attempt.
// The invoker's own retry loop re-prompts the model after any failure; this
// middleware only repeats the same call when the transport failed.
//
// On exhaustion the returned error wraps both [ErrRetryExhausted] and the last
// backend error.
func NewRetryMiddleware(config RetryConfig) invoke.Middleware {
	applyRetryDefaults(&config)

	return func(next invoke.InvokeFunc) invoke.InvokeFunc {
		return func(ctx context.Context, call invoke.Call) (ai.RawResult, error) {
			var lastErr error

			for retry := 0; retry <= config.MaxRetries; retry++ {
				if retry > 0 {
					if err := invoke.Sleep(ctx, config.Backoff.Delay(retry-1)); err != nil {
						return ai.RawResult{}, err
					}
				}

				result, err := next(ctx, call)
				if err == nil {
					return result, nil
				}

				lastErr = err

				if !config.RetryableFunc(err) {
					return ai.RawResult{}, err
				}
			}

			return ai.RawResult{}, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}
