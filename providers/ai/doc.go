// Package ai defines the provider-agnostic backend contract used by the
// structured invoker, plus the pieces needed to obtain a backend for a model:
// a [Registry] of provider factories and a [Catalog] of known models and
// their capabilities.
//
// A [Backend] takes a [Prompt] and returns a [RawResult], which is tagged as
// either free text or an already-structured payload. Backends declare up
// front, through SupportsNativeStructuredDecoding, which of the two they
// produce. Backends that only produce text can be wrapped with [JSONMode] so
// that the model is asked for a bare JSON object (and, where the transport
// supports it, switched to its JSON response format).
//
// Provider implementations live in subpackages (ollama, openai); aitest holds
// a scripted backend for tests.
package ai
