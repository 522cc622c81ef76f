package openai

import "strings"

// Capabilities is the response-format feature set of an OpenAI-compatible
// endpoint. Capabilities are populated by [detectCapabilities] but can be
// overridden via [Provider.WithCapabilities] for non-standard hosts.
type Capabilities struct {
	// SupportsStructuredOutputs enables response_format "json_schema", which
	// makes the backend report native structured decoding.
	SupportsStructuredOutputs bool

	// SupportsJSONObject enables response_format "json_object" in JSON mode.
	SupportsJSONObject bool
}

// detectCapabilities attempts to detect provider capabilities based on baseURL
func detectCapabilities(baseURL string) Capabilities {
	baseURL = strings.ToLower(baseURL)

	switch {
	// Real OpenAI API
	case strings.Contains(baseURL, "api.openai.com"):
		return Capabilities{SupportsStructuredOutputs: true, SupportsJSONObject: true}

	// Azure OpenAI
	case strings.Contains(baseURL, "azure.com") || strings.Contains(baseURL, "openai.azure"):
		return Capabilities{SupportsStructuredOutputs: true, SupportsJSONObject: true}

	// Ollama's OpenAI-compatible endpoint understands json_object only
	case strings.Contains(baseURL, "localhost:11434") || strings.Contains(baseURL, "127.0.0.1:11434"):
		return Capabilities{SupportsStructuredOutputs: false, SupportsJSONObject: true}

	// OpenRouter; depends on the routed model
	case strings.Contains(baseURL, "openrouter.ai"):
		return Capabilities{SupportsStructuredOutputs: true, SupportsJSONObject: true}
	}

	// Conservative defaults for unknown providers
	return Capabilities{}
}
