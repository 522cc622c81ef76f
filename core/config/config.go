package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/leofalp/llmcall/internal/utils"
	"github.com/leofalp/llmcall/providers/ai"
	"gopkg.in/yaml.v3"
)

// Config is the complete process configuration.
type Config struct {
	Default   ModelConfig            `yaml:"default"`
	Agents    map[string]ModelConfig `yaml:"agents"`
	Providers ProvidersConfig        `yaml:"providers"`
	Invoke    InvokeConfig           `yaml:"invoke"`
	Log       LogConfig              `yaml:"log"`
	Metrics   MetricsConfig          `yaml:"metrics"`
}

// ProvidersConfig holds backend endpoints and credentials.
type ProvidersConfig struct {
	Ollama OllamaConfig `yaml:"ollama"`
	OpenAI OpenAIConfig `yaml:"openai"`
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// InvokeConfig tunes the structured invoker.
type InvokeConfig struct {
	MaxRetries     int             `yaml:"max_retries"`
	AttemptTimeout time.Duration   `yaml:"attempt_timeout"`
	Backoff        BackoffConfig   `yaml:"backoff"`
	RepairJSON     bool            `yaml:"repair_json"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// BackoffConfig enables waiting between attempts. Disabled by default.
type BackoffConfig struct {
	Enabled bool          `yaml:"enabled"`
	Initial time.Duration `yaml:"initial"`
	Max     time.Duration `yaml:"max"`
	Factor  float64       `yaml:"factor"`
	Jitter  float64       `yaml:"jitter"`
}

// RateLimitConfig throttles attempts across an invoker. Zero disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Default: DefaultModel,
		Invoke: InvokeConfig{
			MaxRetries: 3,
		},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Namespace: "llmcall"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), a .env file in the working directory when present, and the
// environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LLMCALL_MODEL"); v != "" {
		c.Default.Name = v
	}
	if v := os.Getenv("LLMCALL_PROVIDER"); v != "" {
		c.Default.Provider = v
	}
	if v := os.Getenv("LLMCALL_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LLMCALL_MAX_RETRIES %q: %w", v, err)
		}
		c.Invoke.MaxRetries = n
	}
	c.Log.Level = utils.FirstNonEmpty(os.Getenv("LLMCALL_LOG_LEVEL"), os.Getenv("LOG_LEVEL"), c.Log.Level)

	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.Providers.Ollama.BaseURL = v
	} else if host := os.Getenv("OLLAMA_HOST"); host != "" && c.Providers.Ollama.BaseURL == "" {
		c.Providers.Ollama.BaseURL = "http://" + host + ":11434"
	}
	c.Providers.OpenAI.BaseURL = utils.FirstNonEmpty(os.Getenv("OPENAI_API_BASE_URL"), c.Providers.OpenAI.BaseURL)
	c.Providers.OpenAI.APIKey = utils.FirstNonEmpty(os.Getenv("OPENAI_API_KEY"), c.Providers.OpenAI.APIKey)
	return nil
}

// Validate rejects settings the invoker cannot honour. A blank default model
// is allowed and completed from DefaultModel by the Resolver.
func (c *Config) Validate() error {
	if c.Invoke.MaxRetries < 0 {
		return fmt.Errorf("invoke.max_retries must not be negative, got %d", c.Invoke.MaxRetries)
	}
	if c.Invoke.AttemptTimeout < 0 {
		return fmt.Errorf("invoke.attempt_timeout must not be negative, got %s", c.Invoke.AttemptTimeout)
	}
	if c.Invoke.RateLimit.PerSecond < 0 {
		return fmt.Errorf("invoke.rate_limit.per_second must not be negative, got %g", c.Invoke.RateLimit.PerSecond)
	}
	for agent, m := range c.Agents {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("agent %q: %w", agent, err)
		}
	}
	return nil
}

// Resolver returns a resolver using the configured default model.
func (c *Config) Resolver() *Resolver {
	return NewResolver(c.Default)
}

// RunConfig returns the per-agent models and provider keys as a RunConfig.
func (c *Config) RunConfig() *RunConfig {
	rc := &RunConfig{
		AgentModels: make(map[string]ModelConfig, len(c.Agents)),
		APIKeys:     map[string]string{},
	}
	for agent, m := range c.Agents {
		rc.AgentModels[agent] = m
	}
	if c.Providers.OpenAI.APIKey != "" {
		rc.APIKeys[ai.ProviderOpenAI] = c.Providers.OpenAI.APIKey
	}
	return rc
}
