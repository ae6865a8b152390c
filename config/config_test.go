package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/langworkflow/log"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, log.LogLevelInfo, cfg.LogLevel())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "langworkflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
model:
  provider: azure
  name: gpt-35-turbo-16k
  base_url: https://example.openai.azure.com
  api_version: "2024-06-01"
  temperature: 0.2
agent:
  iterations: 3
  strategy: single-completion
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, log.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, ProviderAzure, cfg.Model.Provider)
	assert.Equal(t, "gpt-35-turbo-16k", cfg.Model.Name)
	assert.Equal(t, "2024-06-01", cfg.Model.APIVersion)
	assert.InDelta(t, 0.2, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 3, cfg.Agent.Iterations)
	assert.Equal(t, "single-completion", cfg.Agent.Strategy)
	// untouched values keep their defaults
	assert.Equal(t, 512, cfg.Model.MaxTokens)

	assert.Len(t, cfg.Model.Options(), 4)
	assert.Len(t, cfg.AgentOptions(), 5)
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("LANGWORKFLOW_MODEL_API_KEY", "secret")
	t.Setenv("LANGWORKFLOW_AGENT_ITERATIONS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Model.APIKey)
	assert.Equal(t, 4, cfg.Agent.Iterations)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"provider", func(c *Config) { c.Model.Provider = "ollama" }},
		{"azure without base url", func(c *Config) { c.Model.Provider = ProviderAzure }},
		{"model name", func(c *Config) { c.Model.Name = "" }},
		{"max tokens", func(c *Config) { c.Model.MaxTokens = 0 }},
		{"temperature", func(c *Config) { c.Model.Temperature = 3 }},
		{"iterations", func(c *Config) { c.Agent.Iterations = -1 }},
		{"strategy", func(c *Config) { c.Agent.Strategy = "tree-of-thought" }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
