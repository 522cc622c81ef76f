package ai

import (
	"context"
	"errors"
	"testing"
)

type stubBackend struct {
	native bool
	result RawResult
	err    error
	seen   []Prompt
}

func (s *stubBackend) Invoke(_ context.Context, prompt Prompt) (RawResult, error) {
	s.seen = append(s.seen, prompt)
	return s.result, s.err
}

func (s *stubBackend) SupportsNativeStructuredDecoding() bool { return s.native }

func TestRegistryAcquireUsesNormalizedProvider(t *testing.T) {
	var got Spec
	reg := NewRegistry(DefaultCatalog()).Register("Ollama", func(_ context.Context, spec Spec) (Backend, error) {
		got = spec
		return &stubBackend{}, nil
	})

	b, err := reg.Acquire(context.Background(), Spec{Model: "mistral:7b-instruct", Provider: " OLLAMA "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("expected backend")
	}
	if got.Info == nil {
		t.Fatal("expected catalog info to be attached to the spec")
	}
	if got.Info.JSONMode {
		t.Error("mistral should not advertise JSON mode")
	}
}

func TestRegistryAcquireUnknownProvider(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Acquire(context.Background(), Spec{Model: "x", Provider: "nowhere"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestRegistryAcquireWrapsFactoryError(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry(nil).Register("openai", func(context.Context, Spec) (Backend, error) {
		return nil, boom
	})

	_, err := reg.Acquire(context.Background(), Spec{Model: "gpt-4.1", Provider: "OpenAI"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
}

func TestRegistryKeepsCallerInfo(t *testing.T) {
	custom := &ModelInfo{Name: "mistral:7b-instruct", Provider: ProviderOllama, JSONMode: true}
	var got Spec
	reg := NewRegistry(DefaultCatalog()).Register(ProviderOllama, func(_ context.Context, spec Spec) (Backend, error) {
		got = spec
		return &stubBackend{}, nil
	})

	if _, err := reg.Acquire(context.Background(), Spec{Model: custom.Name, Provider: ProviderOllama, Info: custom}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Info != custom {
		t.Error("expected caller supplied info to be kept")
	}
}

func TestRegistryProviders(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register("OpenAI", nil).Register("Ollama", nil)

	got := reg.Providers()
	if len(got) != 2 || got[0] != "ollama" || got[1] != "openai" {
		t.Errorf("unexpected providers: %v", got)
	}
}

func TestSpecAPIKey(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"nil map", Spec{Provider: "OpenAI"}, ""},
		{"exact", Spec{Provider: "OpenAI", APIKeys: map[string]string{"OpenAI": "k1"}}, "k1"},
		{"normalized", Spec{Provider: "OpenAI", APIKeys: map[string]string{"openai": "k2"}}, "k2"},
		{"missing", Spec{Provider: "OpenAI", APIKeys: map[string]string{"ollama": "k3"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.APIKey(); got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
