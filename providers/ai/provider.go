package ai

import (
	"context"

	"github.com/leofalp/llmcall/internal/jsonschema"
)

// Backend is the capability interface every model client implements. A
// Backend value is owned by a single invocation and is never shared between
// concurrent calls.
type Backend interface {
	// Invoke sends the prompt to the model and returns its raw result. Errors
	// cover transport failures, non-2xx responses, cancelled contexts and
	// structured payloads that could not be decoded.
	Invoke(ctx context.Context, prompt Prompt) (RawResult, error)

	// SupportsNativeStructuredDecoding reports whether Invoke returns
	// RawKindStructured results that already follow the requested schema.
	SupportsNativeStructuredDecoding() bool
}

// JSONFormatter is implemented by backends whose transport has a JSON-only
// response mode. WithJSONFormat returns a copy of the backend with that mode
// enabled; the result of Invoke stays RawKindText.
type JSONFormatter interface {
	WithJSONFormat() Backend
}

// Spec identifies the backend an invocation needs.
type Spec struct {
	Model    string
	Provider string

	// OutputSchema is the requested response shape. Backends with native
	// structured decoding send it to the model; others may ignore it.
	OutputSchema *jsonschema.Schema

	// APIKeys maps a provider name to a key supplied by the caller for this
	// run. Keys present here take precedence over process configuration.
	APIKeys map[string]string

	// Info is the catalog entry for Model, or nil when the model is unknown
	// to the catalog. The Registry fills it in before calling a Factory.
	Info *ModelInfo
}

// APIKey returns the caller-supplied key for the spec's provider, if any.
func (s Spec) APIKey() string {
	if s.APIKeys == nil {
		return ""
	}
	if key, ok := s.APIKeys[s.Provider]; ok {
		return key
	}
	return s.APIKeys[normalizeProvider(s.Provider)]
}

// Factory builds a Backend for a Spec.
type Factory func(ctx context.Context, spec Spec) (Backend, error)

// Acquirer hands out a fresh Backend per invocation.
type Acquirer interface {
	Acquire(ctx context.Context, spec Spec) (Backend, error)
}

// AcquirerFunc adapts a function to the Acquirer interface.
type AcquirerFunc func(ctx context.Context, spec Spec) (Backend, error)

// Acquire calls f.
func (f AcquirerFunc) Acquire(ctx context.Context, spec Spec) (Backend, error) {
	return f(ctx, spec)
}
