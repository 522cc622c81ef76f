package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/llmcall/providers/ai"
)

// ErrIncompleteModel is returned when a model configuration lacks a name or
// a provider.
var ErrIncompleteModel = errors.New("model configuration needs both a name and a provider")

// ModelConfig names a model and the provider that serves it.
type ModelConfig struct {
	Name     string `yaml:"model_name" json:"model_name"`
	Provider string `yaml:"provider" json:"provider"`
}

// DefaultModel is used when nothing else is configured.
var DefaultModel = ModelConfig{Name: "mistral:7b-instruct", Provider: ai.ProviderOllama}

// Complete reports whether both name and provider are set.
func (m ModelConfig) Complete() bool {
	return strings.TrimSpace(m.Name) != "" && strings.TrimSpace(m.Provider) != ""
}

// Validate returns ErrIncompleteModel for incomplete configurations.
func (m ModelConfig) Validate() error {
	if !m.Complete() {
		return fmt.Errorf("%w: name=%q provider=%q", ErrIncompleteModel, m.Name, m.Provider)
	}
	return nil
}

func (m ModelConfig) String() string {
	return m.Provider + "/" + m.Name
}

// orDefault fills the blank parts of m from DefaultModel.
func (m ModelConfig) orDefault() ModelConfig {
	if strings.TrimSpace(m.Name) == "" {
		m.Name = DefaultModel.Name
	}
	if strings.TrimSpace(m.Provider) == "" {
		m.Provider = DefaultModel.Provider
	}
	return m
}

// RunConfig carries per-run model choices and credentials. It is attached to
// a context and must not be modified once attached.
type RunConfig struct {
	// Model is the run-wide model, used for agents without an entry in
	// AgentModels. Optional.
	Model ModelConfig

	// AgentModels maps agent labels to their models.
	AgentModels map[string]ModelConfig

	// APIKeys maps provider names to API keys for this run.
	APIKeys map[string]string
}

// AgentModel returns the complete model configured for agent, if any.
func (r *RunConfig) AgentModel(agent string) (ModelConfig, bool) {
	if r == nil {
		return ModelConfig{}, false
	}
	if agent != "" {
		if m, ok := r.AgentModels[agent]; ok && m.Complete() {
			return m, true
		}
	}
	if r.Model.Complete() {
		return r.Model, true
	}
	return ModelConfig{}, false
}

type runConfigKey struct{}

// WithRunConfig returns a context carrying rc.
func WithRunConfig(ctx context.Context, rc *RunConfig) context.Context {
	return context.WithValue(ctx, runConfigKey{}, rc)
}

// RunConfigFromContext returns the RunConfig attached to ctx, or nil.
func RunConfigFromContext(ctx context.Context) *RunConfig {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.Value(runConfigKey{}).(*RunConfig)
	return rc
}

// Resolver picks the model for an agent. It is safe for concurrent use.
type Resolver struct {
	fallback ModelConfig
}

// NewResolver returns a resolver whose process default is def, completed
// from DefaultModel where blank.
func NewResolver(def ModelConfig) *Resolver {
	return &Resolver{fallback: def.orDefault()}
}

// Default returns the process default model.
func (r *Resolver) Default() ModelConfig {
	if r == nil {
		return DefaultModel
	}
	return r.fallback
}

// Resolve returns the per-agent override from the context's RunConfig when it
// is complete, otherwise the process default. The result is always complete.
func (r *Resolver) Resolve(ctx context.Context, agent string) ModelConfig {
	if m, ok := RunConfigFromContext(ctx).AgentModel(agent); ok {
		return m
	}
	return r.Default()
}

// APIKeys returns the run's API keys from ctx, or nil.
func APIKeys(ctx context.Context) map[string]string {
	if rc := RunConfigFromContext(ctx); rc != nil {
		return rc.APIKeys
	}
	return nil
}
