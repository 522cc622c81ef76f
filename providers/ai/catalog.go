package ai

import (
	"sort"
	"sync"
)

// Provider names understood by the bundled backends.
const (
	ProviderOllama = "Ollama"
	ProviderOpenAI = "OpenAI"
)

// ModelInfo describes a known model.
type ModelInfo struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
	Name        string `json:"model_name" yaml:"model_name"`
	Provider    string `json:"provider" yaml:"provider"`

	// JSONMode reports that the model reliably follows a JSON schema through
	// its provider's native structured-output mode.
	JSONMode bool `json:"json_mode" yaml:"json_mode"`
}

// Catalog is a concurrency-safe set of ModelInfo keyed by (provider, name).
type Catalog struct {
	mu     sync.RWMutex
	models map[catalogKey]ModelInfo
}

type catalogKey struct {
	provider string
	name     string
}

// NewCatalog builds a catalog holding models.
func NewCatalog(models ...ModelInfo) *Catalog {
	c := &Catalog{models: make(map[catalogKey]ModelInfo, len(models))}
	for _, m := range models {
		c.Add(m)
	}
	return c
}

// DefaultModels are the local models the project was built around. None of
// them is trusted with native JSON mode.
var DefaultModels = []ModelInfo{
	{DisplayName: "[ollama] mistral:7b-instruct", Name: "mistral:7b-instruct", Provider: ProviderOllama},
	{DisplayName: "[ollama] llama3.1:8b-instruct", Name: "llama3.1:8b-instruct", Provider: ProviderOllama},
	{DisplayName: "[ollama] codellama:7b-instruct", Name: "codellama:7b-instruct", Provider: ProviderOllama},
	{DisplayName: "[ollama] qwen2.5:7b-instruct", Name: "qwen2.5:7b-instruct", Provider: ProviderOllama},
}

// DefaultCatalog returns a catalog preloaded with DefaultModels.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultModels...)
}

// Add inserts or replaces a model entry.
func (c *Catalog) Add(m ModelInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.models == nil {
		c.models = map[catalogKey]ModelInfo{}
	}
	c.models[catalogKey{provider: normalizeProvider(m.Provider), name: m.Name}] = m
}

// Lookup finds a model by name and provider.
func (c *Catalog) Lookup(name, provider string) (ModelInfo, bool) {
	if c == nil {
		return ModelInfo{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.models[catalogKey{provider: normalizeProvider(provider), name: name}]
	return m, ok
}

// Models returns every entry sorted by provider then name.
func (c *Catalog) Models() []ModelInfo {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	out := make([]ModelInfo, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		pi, pj := normalizeProvider(out[i].Provider), normalizeProvider(out[j].Provider)
		if pi != pj {
			return pi < pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
