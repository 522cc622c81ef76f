// Package parse recovers structured payloads from raw LLM text output.
// Models without a structured-output mode tend to wrap JSON in narrative
// prose or markdown code fences, so [Extract] tries a fixed sequence of
// progressively looser strategies and keeps the first one that decodes to a
// JSON object:
//
//  1. a code fence tagged json,
//  2. the first code fence of any kind,
//  3. the whole trimmed text,
//  4. the span from the first '{' to the last '}'.
//
// Decode failures are never surfaced; when every strategy fails the result is
// simply absent. An [Extractor] built with [WithRepair] additionally runs each
// failed candidate through jsonrepair and unwraps schema-style
// {"type": ..., "value": ...} envelopes before giving up on it.
package parse
