package ollama

import (
	"context"
	"encoding/json"
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
	defaultHost  = "localhost"
	defaultPort  = "11434"
	chatEndpoint = "/api/chat"
)

// BaseURLFromEnv resolves the server address from OLLAMA_BASE_URL and
// OLLAMA_HOST.
func BaseURLFromEnv() string {
	if base := strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL")); base != "" {
		return base
	}
	host := utils.FirstNonEmpty(os.Getenv("OLLAMA_HOST"), defaultHost)
	return "http://" + host + ":" + defaultPort
}

// Provider is an ai.Backend for one Ollama model.
type Provider struct {
	baseURL    string
	model      string
	client     *http.Client
	schema     *jsonschema.Schema
	native     bool
	jsonFormat bool
	options    map[string]any
}

var (
	_ ai.Backend       = (*Provider)(nil)
	_ ai.JSONFormatter = (*Provider)(nil)
)

// New creates a provider for model at BaseURLFromEnv().
func New(model string) *Provider {
	return &Provider{
		baseURL: BaseURLFromEnv(),
		model:   model,
		client:  &http.Client{},
	}
}

// Factory builds providers for the ai.Registry. Native structured decoding is
// enabled only for catalog entries with JSON mode.
func Factory(ctx context.Context, spec ai.Spec) (ai.Backend, error) {
	return NewFactory("")(ctx, spec)
}

// NewFactory is like Factory with a fixed server address. A blank baseURL
// keeps BaseURLFromEnv().
func NewFactory(baseURL string) ai.Factory {
	return func(_ context.Context, spec ai.Spec) (ai.Backend, error) {
		p := New(spec.Model).WithOutputSchema(spec.OutputSchema)
		if baseURL != "" {
			p.WithBaseURL(baseURL)
		}
		if spec.Info != nil && spec.Info.JSONMode {
			p.WithNativeDecoding(true)
		}
		return p, nil
	}
}

// WithBaseURL sets the server address.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	return p
}

// WithHTTPClient sets a custom HTTP client
func (p *Provider) WithHTTPClient(client *http.Client) *Provider {
	p.client = client
	return p
}

// WithOutputSchema sets the schema sent as format in native mode.
func (p *Provider) WithOutputSchema(schema *jsonschema.Schema) *Provider {
	p.schema = schema
	return p
}

// WithNativeDecoding toggles schema-constrained output.
func (p *Provider) WithNativeDecoding(enabled bool) *Provider {
	p.native = enabled
	return p
}

// WithOption sets a model option such as "temperature" or "num_ctx".
func (p *Provider) WithOption(key string, value any) *Provider {
	if p.options == nil {
		p.options = map[string]any{}
	}
	p.options[key] = value
	return p
}

// WithJSONFormat returns a copy that sends format "json".
func (p *Provider) WithJSONFormat() ai.Backend {
	cp := *p
	cp.jsonFormat = true
	return &cp
}

// SupportsNativeStructuredDecoding reports whether Invoke returns decoded payloads.
func (p *Provider) SupportsNativeStructuredDecoding() bool {
	return p.native && !p.jsonFormat && p.schema != nil
}

// Invoke implements ai.Backend.
func (p *Provider) Invoke(ctx context.Context, prompt ai.Prompt) (ai.RawResult, error) {
	native := p.SupportsNativeStructuredDecoding()

	req := chatRequest{
		Model:    p.model,
		Messages: make([]chatMessage, len(prompt)),
		Stream:   false,
		Options:  p.options,
	}
	for i, m := range prompt {
		req.Messages[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	format := "text"
	switch {
	case native:
		req.Format = p.schema
		format = "native"
	case p.jsonFormat:
		req.Format = "json"
		format = "json"
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMEndpoint, p.baseURL),
			observability.String(observability.AttrLLMResponseFormat, format),
		)
	}

	_, resp, err := utils.DoPostSync[chatResponse](ctx, p.client, utils.JoinURL(p.baseURL, chatEndpoint), "", req)
	if err != nil {
		return ai.RawResult{}, err
	}
	if resp == nil {
		return ai.RawResult{}, ai.ErrEmptyResponse
	}
	if resp.Error != "" {
		return ai.RawResult{}, fmt.Errorf("ollama: %s", resp.Error)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		return ai.RawResult{}, ai.ErrEmptyResponse
	}

	result := ai.TextResult(resp.Message.Content)
	if native {
		var payload map[string]any
		if err := json.Unmarshal([]byte(resp.Message.Content), &payload); err != nil {
			return ai.RawResult{}, fmt.Errorf("ollama: structured output is not a JSON object: %w", err)
		}
		result = ai.StructuredResult(payload)
		result.Text = resp.Message.Content
	}
	result.Model = resp.Model
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}
	return result, nil
}
