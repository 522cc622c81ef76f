package ai

/*
	##### PROVIDER INPUT #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Earlier model response
)

// Message represents a single message in a prompt.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Prompt is the ordered message list sent to a backend. The invoker treats it
// as opaque.
type Prompt []Message

// TextPrompt wraps a single user message.
func TextPrompt(content string) Prompt {
	return Prompt{{Role: RoleUser, Content: content}}
}

// WithSystem returns a copy of p with a system message prepended. The
// receiver is not modified.
func (p Prompt) WithSystem(content string) Prompt {
	out := make(Prompt, 0, len(p)+1)
	out = append(out, Message{Role: RoleSystem, Content: content})
	return append(out, p...)
}

/*
	##### PROVIDER OUTPUT #####
*/

// RawKind tags the shape of a RawResult.
type RawKind int

const (
	// RawKindText is free-form model text that still has to be parsed.
	RawKindText RawKind = iota
	// RawKindStructured is a payload already decoded by the backend.
	RawKindStructured
)

func (k RawKind) String() string {
	if k == RawKindStructured {
		return "structured"
	}
	return "text"
}

// Usage reports token counts for one backend call, when the provider returns them.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// RawResult is what a backend returned for one call.
type RawResult struct {
	Kind    RawKind
	Text    string         // set for RawKindText, and the raw body for RawKindStructured when available
	Payload map[string]any // set for RawKindStructured
	Model   string         // model that served the call, as reported by the provider
	Usage   *Usage
}

// TextResult builds a RawKindText result.
func TextResult(text string) RawResult {
	return RawResult{Kind: RawKindText, Text: text}
}

// StructuredResult builds a RawKindStructured result.
func StructuredResult(payload map[string]any) RawResult {
	return RawResult{Kind: RawKindStructured, Payload: payload}
}
