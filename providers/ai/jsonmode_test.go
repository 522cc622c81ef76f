package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/llmcall/internal/jsonschema"
)

type formattingBackend struct {
	stubBackend
	formatted bool
}

func (f *formattingBackend) WithJSONFormat() Backend {
	cp := *f
	cp.formatted = true
	return &cp
}

func testSchema() *jsonschema.Schema {
	return jsonschema.Object("Signal").
		AddProperty("signal", jsonschema.Enum("bullish", "bearish", "neutral")).
		AddProperty("confidence", jsonschema.Number().WithDescription("0 to 100"))
}

func TestJSONModePrependsInstruction(t *testing.T) {
	inner := &stubBackend{native: true, result: TextResult(`{"signal":"bullish"}`)}
	b := JSONMode(inner, testSchema())

	if b.SupportsNativeStructuredDecoding() {
		t.Error("JSON mode backend must not report native decoding")
	}

	res, err := b.Invoke(context.Background(), TextPrompt("analyze"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != RawKindText || res.Text != `{"signal":"bullish"}` {
		t.Errorf("unexpected result: %+v", res)
	}

	if len(inner.seen) != 1 {
		t.Fatalf("expected one call, got %d", len(inner.seen))
	}
	sent := inner.seen[0]
	if len(sent) != 2 || sent[0].Role != RoleSystem || sent[1].Content != "analyze" {
		t.Fatalf("unexpected prompt: %+v", sent)
	}
	for _, want := range []string{`"signal"`, `"confidence"`, "bullish", "0 to 100"} {
		if !strings.Contains(sent[0].Content, want) {
			t.Errorf("instruction missing %q:\n%s", want, sent[0].Content)
		}
	}
}

func TestJSONModeSwitchesFormatter(t *testing.T) {
	inner := &formattingBackend{stubBackend: stubBackend{result: TextResult("{}")}}
	b := JSONMode(inner, nil)

	wrapped, ok := b.(*jsonModeBackend)
	if !ok {
		t.Fatalf("unexpected type %T", b)
	}
	f, ok := wrapped.Unwrap().(*formattingBackend)
	if !ok || !f.formatted {
		t.Error("expected the formatter copy to be used")
	}
	if inner.formatted {
		t.Error("original backend must not be modified")
	}
}

func TestJSONModeFlattensStructuredResult(t *testing.T) {
	inner := &stubBackend{result: StructuredResult(map[string]any{"a": 1.0})}

	res, err := JSONMode(inner, nil).Invoke(context.Background(), TextPrompt("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != RawKindText || res.Payload != nil || res.Text != `{"a":1}` {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestJSONModePropagatesError(t *testing.T) {
	boom := errors.New("offline")
	inner := &stubBackend{err: boom}

	_, err := JSONMode(inner, nil).Invoke(context.Background(), TextPrompt("x"))
	if !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}
