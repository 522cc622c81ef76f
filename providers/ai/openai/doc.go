// Package openai implements an ai.Backend for OpenAI-compatible
// /v1/chat/completions endpoints.
//
// [New] reads OPENAI_API_KEY and OPENAI_API_BASE_URL from the environment and
// detects response-format capabilities for well-known hosts (OpenAI, Azure,
// Ollama, OpenRouter). When the endpoint supports structured outputs and an
// output schema is set, the backend requests response_format "json_schema"
// and reports native structured decoding; otherwise it returns plain text and
// can be switched to response_format "json_object" through WithJSONFormat.
package openai
