package utils

import (
	"strings"
	"testing"
)

func TestJSONToString(t *testing.T) {
	compact := JSONToString(map[string]int{"a": 1})
	if compact != `{"a":1}` {
		t.Errorf("JSONToString() = %q, want compact JSON", compact)
	}

	indented := JSONToString(map[string]int{"x": 42}, true)
	if !strings.Contains(indented, "\n  \"x\": 42") {
		t.Errorf("JSONToString(indent=true) = %q, want two-space indentation", indented)
	}

	// Channels cannot be marshaled to JSON.
	if result := JSONToString(make(chan int)); !strings.HasPrefix(result, `{"error":`) {
		t.Errorf("JSONToString() on unmarshalable value should return error JSON, got: %q", result)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdefgh", 3, "abc... (truncated, total: 8 chars)"},
		{"default length", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}

	long := strings.Repeat("x", DefaultMaxStringLength+1)
	if got := TruncateStringDefault(long); !strings.HasSuffix(got, "total: 501 chars)") {
		t.Errorf("TruncateStringDefault() = %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", " b ", "c"); got != "b" {
		t.Errorf("FirstNonEmpty() = %q, want %q", got, "b")
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("FirstNonEmpty() = %q, want empty", got)
	}
}

func TestJoinURL(t *testing.T) {
	tests := map[string][2]string{
		"http://h:11434/api/chat": {"http://h:11434/", "/api/chat"},
		"http://h/v1/chat":        {"http://h/v1", "chat"},
	}
	for want, in := range tests {
		if got := JoinURL(in[0], in[1]); got != want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
