package ai

import (
	"context"
	"strings"

	"github.com/leofalp/llmcall/internal/jsonschema"
	"github.com/leofalp/llmcall/internal/utils"
)

// jsonModeBackend coerces a text-only backend into answering with a bare JSON
// object. Results stay RawKindText; callers still extract the payload.
type jsonModeBackend struct {
	inner       Backend
	instruction string
}

// JSONMode wraps b so that every prompt is preceded by an instruction asking
// for a single JSON object shaped like schema. When b implements
// JSONFormatter its JSON response format is switched on as well.
func JSONMode(b Backend, schema *jsonschema.Schema) Backend {
	if formatter, ok := b.(JSONFormatter); ok {
		b = formatter.WithJSONFormat()
	}
	return &jsonModeBackend{
		inner:       b,
		instruction: buildJSONInstruction(schema),
	}
}

func (j *jsonModeBackend) Invoke(ctx context.Context, prompt Prompt) (RawResult, error) {
	result, err := j.inner.Invoke(ctx, prompt.WithSystem(j.instruction))
	if err != nil {
		return RawResult{}, err
	}
	if result.Kind != RawKindText {
		// The inner backend decoded anyway; hand its body back as text so the
		// extraction path stays uniform.
		if result.Text == "" {
			result.Text = utils.JSONToString(result.Payload)
		}
		result.Kind = RawKindText
		result.Payload = nil
	}
	return result, nil
}

func (j *jsonModeBackend) SupportsNativeStructuredDecoding() bool {
	return false
}

// Unwrap returns the wrapped backend.
func (j *jsonModeBackend) Unwrap() Backend {
	return j.inner
}

func buildJSONInstruction(schema *jsonschema.Schema) string {
	var sb strings.Builder
	sb.WriteString("Respond with a single valid JSON object and nothing else.")
	if schema == nil || len(schema.Properties) == 0 {
		return sb.String()
	}

	sb.WriteString(" The object must have these fields:\n")
	for _, name := range schema.PropertyOrder {
		prop := schema.Properties[name]
		sb.WriteString("- \"")
		sb.WriteString(name)
		sb.WriteString("\"")
		if prop != nil && prop.Type != "" {
			sb.WriteString(" (")
			sb.WriteString(prop.Type)
			if len(prop.Enum) > 0 {
				sb.WriteString(", one of ")
				sb.WriteString(utils.JSONToString(prop.Enum))
			}
			sb.WriteString(")")
		}
		if prop != nil && prop.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(prop.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Do not wrap the JSON in markdown code blocks.")
	return sb.String()
}
