package ai

import "strings"

// normalizeProvider folds provider names so that "Ollama", "ollama" and
// " OLLAMA " select the same factory.
func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
