package invoke

import (
	"context"

	"github.com/leofalp/llmcall/core/config"
	"github.com/leofalp/llmcall/providers/ai"
)

// Call describes one attempt as seen by middleware.
type Call struct {
	InvocationID string
	Agent        string
	Model        config.ModelConfig
	Attempt      int // 1-based
	MaxRetries   int
	Prompt       ai.Prompt
}

// InvokeFunc performs one backend call. It is the unit threaded through the
// middleware chain.
type InvokeFunc func(ctx context.Context, call Call) (ai.RawResult, error)

// Middleware wraps the next InvokeFunc in the chain. Middlewares are applied
// outermost-first: the first middleware given to WithMiddleware runs first.
type Middleware func(next InvokeFunc) InvokeFunc

// buildChain constructs the attempt chain. The base function calls the
// backend directly; middlewares are applied in reverse so that
// middlewares[0] is the outermost wrapper.
func buildChain(backend ai.Backend, middlewares []Middleware) InvokeFunc {
	var chain InvokeFunc = func(ctx context.Context, call Call) (ai.RawResult, error) {
		return backend.Invoke(ctx, call.Prompt)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}
	return chain
}
