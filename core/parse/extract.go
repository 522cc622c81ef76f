package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

const (
	fence       = "```"
	taggedFence = "```json"
)

// Payload is a decoded JSON object keyed by field name. It may be partial with
// respect to any schema; numbers are kept as json.Number.
type Payload map[string]any

// Strategy identifies which extraction step produced a payload.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyTaggedFence
	StrategyFence
	StrategyWhole
	StrategyBraces
)

func (s Strategy) String() string {
	switch s {
	case StrategyTaggedFence:
		return "tagged_fence"
	case StrategyFence:
		return "fence"
	case StrategyWhole:
		return "whole"
	case StrategyBraces:
		return "braces"
	default:
		return "none"
	}
}

// ErrNoPayload is returned by ExtractReport when no strategy yields a JSON object.
var ErrNoPayload = errors.New("no structured payload found in response")

// Extractor runs the extraction strategies. The zero value is ready to use
// and equivalent to NewExtractor().
type Extractor struct {
	repair bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRepair enables the jsonrepair pass on candidates that fail to decode.
// Repair makes extraction more forgiving of truncated or loosely quoted
// output, at the cost of occasionally accepting text that only resembles JSON.
func WithRepair(enabled bool) Option {
	return func(e *Extractor) {
		e.repair = enabled
	}
}

// NewExtractor returns an Extractor configured with opts.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = &Extractor{}

// Extract locates and decodes the first JSON object embedded in text using the
// default (non-repairing) strategies. The boolean is false when nothing could
// be decoded.
//
// Example:
//
//	payload, ok := parse.Extract("Sure!\n```json\n{\"signal\": \"bullish\"}\n```")
//	// payload = {"signal": "bullish"}, ok = true
func Extract(text string) (Payload, bool) {
	return defaultExtractor.Extract(text)
}

// Extract is the method form of the package-level Extract.
func (e *Extractor) Extract(text string) (Payload, bool) {
	payload, _, err := e.ExtractReport(text)
	return payload, err == nil
}

// ExtractReport is like Extract but also reports the winning strategy. The
// only error it returns is ErrNoPayload.
func (e *Extractor) ExtractReport(text string) (Payload, Strategy, error) {
	if e == nil {
		e = defaultExtractor
	}

	// Method 1: fenced block explicitly tagged as json
	if candidate, ok := fencedAfter(text, taggedFence); ok {
		if payload, ok := e.decode(candidate); ok {
			return payload, StrategyTaggedFence, nil
		}
	}

	// Method 2: first fenced block of any kind
	if candidate, ok := fencedAfter(text, fence); ok {
		if payload, ok := e.decode(candidate); ok {
			return payload, StrategyFence, nil
		}
	}

	// Method 3: the whole content
	if payload, ok := e.decode(strings.TrimSpace(text)); ok {
		return payload, StrategyWhole, nil
	}

	// Method 4: outermost braces
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if payload, ok := e.decode(text[start : end+1]); ok {
			return payload, StrategyBraces, nil
		}
	}

	return nil, StrategyNone, ErrNoPayload
}

// fencedAfter returns the trimmed content between the first occurrence of
// opener and the next closing fence.
func fencedAfter(text, opener string) (string, bool) {
	start := strings.Index(text, opener)
	if start == -1 {
		return "", false
	}
	rest := text[start+len(opener):]
	end := strings.Index(rest, fence)
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// decode attempts to turn candidate into a Payload. It never panics.
func (e *Extractor) decode(candidate string) (payload Payload, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			payload, ok = nil, false
		}
	}()

	if candidate == "" {
		return nil, false
	}

	if payload, err := decodeObject(candidate); err == nil {
		return payload, true
	}

	if !e.repair {
		return nil, false
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, false
	}
	payload, err = decodeObject(repaired)
	if err != nil {
		return nil, false
	}

	// LLMs sometimes confuse the JSON schema with actual data and answer with
	// {"field": {"type": "string", "value": "..."}}.
	if unwrapped, ok := recursiveUnwrap(map[string]any(payload)).(map[string]any); ok {
		return Payload(unwrapped), true
	}
	return payload, true
}

// Unwrap strips schema-like {"type": ..., "value": ...} envelopes from a
// payload that decoded cleanly but still carries them. It reports false when
// repair is disabled or the payload holds no envelope.
func (e *Extractor) Unwrap(payload Payload) (Payload, bool) {
	if e == nil || !e.repair || !hasEnvelope(map[string]any(payload)) {
		return payload, false
	}
	unwrapped, ok := recursiveUnwrap(map[string]any(payload)).(map[string]any)
	if !ok {
		return payload, false
	}
	return Payload(unwrapped), true
}

func hasEnvelope(data any) bool {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if _, hasValue := v["value"]; hasValue && len(v) == 2 {
				return true
			}
		}
		for _, val := range v {
			if hasEnvelope(val) {
				return true
			}
		}
	case []any:
		for _, val := range v {
			if hasEnvelope(val) {
				return true
			}
		}
	}
	return false
}

// decodeObject decodes exactly one JSON object from s. Trailing data, arrays
// and scalars are rejected.
func decodeObject(s string) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("JSON value is %T, not an object", v)
	}
	return Payload(obj), nil
}

// recursiveUnwrap recursively processes data structures to unwrap schema-like
// {"type": ..., "value": ...} values.
//
// Example input:
//
//	{"name": {"type": "string", "value": "John"}, "age": {"type": "integer", "value": 30}}
//
// Example output:
//
//	{"name": "John", "age": 30}
func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}

		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
