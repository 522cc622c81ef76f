package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LLMCALL_MODEL", "LLMCALL_PROVIDER", "LLMCALL_MAX_RETRIES", "LLMCALL_LOG_LEVEL", "LOG_LEVEL",
		"OLLAMA_HOST", "OLLAMA_BASE_URL", "OPENAI_API_KEY", "OPENAI_API_BASE_URL",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Default)
	assert.Equal(t, 3, cfg.Invoke.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "llmcall", cfg.Metrics.Namespace)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "llmcall.yaml", `
default:
  model_name: gpt-4.1
  provider: OpenAI
agents:
  sentiment:
    model_name: qwen2.5:7b-instruct
    provider: Ollama
providers:
  ollama:
    base_url: http://gpu:11434
  openai:
    api_key: file-key
invoke:
  max_retries: 5
  attempt_timeout: 45s
  repair_json: true
  backoff:
    enabled: true
    initial: 200ms
    max: 2s
    factor: 2
  rate_limit:
    per_second: 1.5
    burst: 2
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModelConfig{Name: "gpt-4.1", Provider: "OpenAI"}, cfg.Default)
	assert.Equal(t, "qwen2.5:7b-instruct", cfg.Agents["sentiment"].Name)
	assert.Equal(t, "http://gpu:11434", cfg.Providers.Ollama.BaseURL)
	assert.Equal(t, 5, cfg.Invoke.MaxRetries)
	assert.Equal(t, 45*time.Second, cfg.Invoke.AttemptTimeout)
	assert.True(t, cfg.Invoke.RepairJSON)
	assert.True(t, cfg.Invoke.Backoff.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Invoke.Backoff.Initial)
	assert.Equal(t, 1.5, cfg.Invoke.RateLimit.PerSecond)
	assert.Equal(t, "debug", cfg.Log.Level)

	rc := cfg.RunConfig()
	assert.Equal(t, "file-key", rc.APIKeys["OpenAI"])
	assert.Equal(t, cfg.Agents["sentiment"], rc.AgentModels["sentiment"])
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "llmcall.yaml", "providers:\n  openai:\n    api_key: file-key\n")
	t.Setenv("LLMCALL_MODEL", "llama3.1:8b-instruct")
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OLLAMA_HOST", "box")
	t.Setenv("LLMCALL_MAX_RETRIES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3.1:8b-instruct", cfg.Default.Name)
	assert.Equal(t, "Ollama", cfg.Default.Provider)
	assert.Equal(t, "env-key", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "http://box:11434", cfg.Providers.Ollama.BaseURL)
	assert.Equal(t, 7, cfg.Invoke.MaxRetries)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv skips variables that exist, even when empty.
	require.NoError(t, os.Unsetenv("LLMCALL_PROVIDER"))
	require.NoError(t, os.WriteFile(".env", []byte("LLMCALL_PROVIDER=OpenAI\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", cfg.Default.Provider)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "invoke: [oops"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "neg.yaml", "invoke:\n  max_retries: -1\n"))
	assert.ErrorContains(t, err, "max_retries")

	_, err = Load(writeFile(t, "agent.yaml", "agents:\n  x:\n    model_name: m\n"))
	assert.ErrorIs(t, err, ErrIncompleteModel)

	t.Setenv("LLMCALL_MAX_RETRIES", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "LLMCALL_MAX_RETRIES")
}
