// Package invoke turns a model call into a value of a declared schema.
//
// An [Invoker] resolves the model for the request's agent, acquires a fresh
// backend, and makes up to MaxRetries attempts. Backends that decode
// structured output natively are used as-is; the others are wrapped with
// ai.JSONMode and their text goes through the parse extractor. Every payload
// is merged into the schema field by field, so a partial answer is accepted
// with defaults for the missing fields.
//
// Invoke never returns an error and never panics. When every attempt fails
// the request's DefaultFactory supplies the value, or schema.Synthesize when
// there is none. Each failed attempt is announced to the progress sink as
// "Error - retry k/max" when the request names an agent.
//
// Attempts run through a chain of [Middleware], applied outermost-first; the
// middleware subpackage has timeout, rate-limit, transport-retry and logging
// implementations.
package invoke
