// Package ollama implements an ai.Backend for a local Ollama server's
// /api/chat endpoint.
//
// The server address comes from OLLAMA_BASE_URL, or http://$OLLAMA_HOST:11434
// with OLLAMA_HOST defaulting to localhost. Requests are never streamed. In
// JSON mode the request carries format "json"; with native structured
// decoding enabled it carries the output schema itself and the reply content
// is decoded into a payload.
package ollama
