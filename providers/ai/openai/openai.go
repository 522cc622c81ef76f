package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/llmcall/internal/jsonschema"
	"github.com/leofalp/llmcall/internal/utils"
	"github.com/leofalp/llmcall/providers/ai"
	"github.com/leofalp/llmcall/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// ErrMissingAPIKey is returned by Invoke when no API key is configured.
var ErrMissingAPIKey = errors.New("openai: API key is not set")

// Provider is an ai.Backend for one model on an OpenAI-compatible endpoint.
type Provider struct {
	apiKey       string
	baseURL      string
	model        string
	client       *http.Client
	capabilities Capabilities
	schema       *jsonschema.Schema
	jsonFormat   bool
	temperature  *float64
}

var (
	_ ai.Backend       = (*Provider)(nil)
	_ ai.JSONFormatter = (*Provider)(nil)
)

// New creates a provider for model with values read from the environment.
func New(model string) *Provider {
	baseURL := utils.FirstNonEmpty(os.Getenv("OPENAI_API_BASE_URL"), defaultBaseURL)
	return &Provider{
		apiKey:       os.Getenv("OPENAI_API_KEY"),
		baseURL:      baseURL,
		model:        model,
		client:       &http.Client{},
		capabilities: detectCapabilities(baseURL),
	}
}

// Factory builds providers for the ai.Registry. A caller-supplied key in the
// spec takes precedence over OPENAI_API_KEY. Catalog entries that disable
// JSON mode also disable native structured decoding.
func Factory(ctx context.Context, spec ai.Spec) (ai.Backend, error) {
	return NewFactory("", "")(ctx, spec)
}

// NewFactory is like Factory with a fixed base URL and a fallback API key.
// Blank values keep the environment defaults.
func NewFactory(baseURL, apiKey string) ai.Factory {
	return func(_ context.Context, spec ai.Spec) (ai.Backend, error) {
		p := New(spec.Model).WithOutputSchema(spec.OutputSchema)
		if baseURL != "" {
			p.WithBaseURL(baseURL)
		}
		if key := utils.FirstNonEmpty(spec.APIKey(), apiKey); key != "" {
			p.WithAPIKey(key)
		}
		if spec.Info != nil && !spec.Info.JSONMode {
			p.capabilities.SupportsStructuredOutputs = false
		}
		return p, nil
	}
}

// WithAPIKey sets the API key for the provider
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL and re-detects capabilities.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	p.capabilities = detectCapabilities(baseURL)
	return p
}

// WithHTTPClient sets a custom HTTP client
func (p *Provider) WithHTTPClient(httpClient *http.Client) *Provider {
	p.client = httpClient
	return p
}

// WithCapabilities overrides detected capabilities.
func (p *Provider) WithCapabilities(c Capabilities) *Provider {
	p.capabilities = c
	return p
}

// WithOutputSchema sets the schema sent with response_format "json_schema".
func (p *Provider) WithOutputSchema(schema *jsonschema.Schema) *Provider {
	p.schema = schema
	return p
}

// WithTemperature sets the sampling temperature.
func (p *Provider) WithTemperature(t float64) *Provider {
	p.temperature = &t
	return p
}

// WithJSONFormat returns a copy that answers in JSON text mode.
func (p *Provider) WithJSONFormat() ai.Backend {
	cp := *p
	cp.jsonFormat = true
	return &cp
}

// SupportsNativeStructuredDecoding reports whether Invoke returns decoded payloads.
func (p *Provider) SupportsNativeStructuredDecoding() bool {
	return !p.jsonFormat && p.schema != nil && p.capabilities.SupportsStructuredOutputs
}

// Invoke implements ai.Backend.
func (p *Provider) Invoke(ctx context.Context, prompt ai.Prompt) (ai.RawResult, error) {
	if p.apiKey == "" && strings.Contains(strings.ToLower(p.baseURL), "api.openai.com") {
		return ai.RawResult{}, ErrMissingAPIKey
	}

	native := p.SupportsNativeStructuredDecoding()
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMResponseFormat, p.responseFormatName(native)),
		)
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, utils.JoinURL(p.baseURL, chatCompletionsEndpoint), p.apiKey, p.buildRequest(prompt, native))
	if err != nil {
		return ai.RawResult{}, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return ai.RawResult{}, ai.ErrEmptyResponse
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return ai.RawResult{}, fmt.Errorf("openai: model refused: %s", msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return ai.RawResult{}, ai.ErrEmptyResponse
	}

	result := ai.TextResult(msg.Content)
	if native {
		var payload map[string]any
		if err := json.Unmarshal([]byte(msg.Content), &payload); err != nil {
			return ai.RawResult{}, fmt.Errorf("openai: structured output is not a JSON object: %w", err)
		}
		result = ai.StructuredResult(payload)
		result.Text = msg.Content
	}
	result.Model = resp.Model
	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return result, nil
}

func (p *Provider) buildRequest(prompt ai.Prompt, native bool) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:       p.model,
		Messages:    make([]chatMessage, len(prompt)),
		Temperature: p.temperature,
	}
	for i, m := range prompt {
		req.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}

	switch {
	case native:
		req.ResponseFormat = &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &chatJSONSchema{
				Name:   schemaName(p.schema),
				Schema: p.schema,
			},
		}
	case p.jsonFormat && p.capabilities.SupportsJSONObject:
		req.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}
	return req
}

func (p *Provider) responseFormatName(native bool) string {
	switch {
	case native:
		return "native"
	case p.jsonFormat:
		return "json"
	}
	return "text"
}

// schemaName derives the json_schema name, which OpenAI restricts to
// [a-zA-Z0-9_-].
func schemaName(s *jsonschema.Schema) string {
	if s == nil || s.Title == "" {
		return "response"
	}
	var sb strings.Builder
	for _, r := range s.Title {
		if r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
