package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every transport
// retry failed. It wraps the last backend error, so errors.Is and errors.As
// still reach the root cause.
var ErrRetryExhausted = errors.New("llmcall: all transport retries exhausted")
