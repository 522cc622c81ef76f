package config

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverFallsBackToDefault(t *testing.T) {
	r := NewResolver(ModelConfig{Name: "gpt-4.1", Provider: "OpenAI"})

	got := r.Resolve(context.Background(), "sentiment")
	assert.Equal(t, ModelConfig{Name: "gpt-4.1", Provider: "OpenAI"}, got)
}

func TestResolverCompletesDefault(t *testing.T) {
	tests := []struct {
		name string
		def  ModelConfig
		want ModelConfig
	}{
		{"empty", ModelConfig{}, DefaultModel},
		{"name only", ModelConfig{Name: "llama3.1:8b-instruct"}, ModelConfig{Name: "llama3.1:8b-instruct", Provider: "Ollama"}},
		{"provider only", ModelConfig{Provider: "OpenAI"}, ModelConfig{Name: "mistral:7b-instruct", Provider: "OpenAI"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(tt.def).Resolve(context.Background(), "")
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Complete())
		})
	}

	var nilResolver *Resolver
	assert.Equal(t, DefaultModel, nilResolver.Resolve(context.Background(), "x"))
}

func TestResolverPrefersCompleteAgentOverride(t *testing.T) {
	r := NewResolver(DefaultModel)
	rc := &RunConfig{
		Model: ModelConfig{Name: "run-model", Provider: "OpenAI"},
		AgentModels: map[string]ModelConfig{
			"fundamentals": {Name: "qwen2.5:7b-instruct", Provider: "Ollama"},
			"technicals":   {Name: "missing-provider"},
		},
	}
	ctx := WithRunConfig(context.Background(), rc)

	assert.Equal(t, rc.AgentModels["fundamentals"], r.Resolve(ctx, "fundamentals"))
	// incomplete override falls through to the run-wide model
	assert.Equal(t, rc.Model, r.Resolve(ctx, "technicals"))
	assert.Equal(t, rc.Model, r.Resolve(ctx, ""))

	rc2 := &RunConfig{AgentModels: map[string]ModelConfig{"technicals": {Name: "x"}}}
	assert.Equal(t, DefaultModel, r.Resolve(WithRunConfig(context.Background(), rc2), "technicals"))
}

func TestResolverConcurrent(t *testing.T) {
	r := NewResolver(DefaultModel)
	ctx := WithRunConfig(context.Background(), &RunConfig{
		AgentModels: map[string]ModelConfig{"a": {Name: "m", Provider: "p"}},
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "m", r.Resolve(ctx, "a").Name)
		}()
	}
	wg.Wait()
}

func TestModelConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultModel.Validate())
	err := ModelConfig{Name: " "}.Validate()
	assert.True(t, errors.Is(err, ErrIncompleteModel))
	assert.Equal(t, "Ollama/mistral:7b-instruct", DefaultModel.String())
}

func TestAPIKeysFromContext(t *testing.T) {
	assert.Nil(t, APIKeys(context.Background()))

	ctx := WithRunConfig(context.Background(), &RunConfig{APIKeys: map[string]string{"OpenAI": "k"}})
	assert.Equal(t, "k", APIKeys(ctx)["OpenAI"])
}
