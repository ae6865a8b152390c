// Package config loads langworkflow settings from a YAML file and LANGWORKFLOW_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/smallnest/langworkflow/agent"
	"github.com/smallnest/langworkflow/llms/openai"
	"github.com/smallnest/langworkflow/log"
	"github.com/smallnest/langworkflow/parser"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// EnvPrefix prefixes the environment variables, e.g. LANGWORKFLOW_MODEL_API_KEY.
const EnvPrefix = "LANGWORKFLOW"

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ModelConfig struct {
	Provider       string  `mapstructure:"provider"` // "openai" or "azure"
	Name           string  `mapstructure:"name"`
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	APIVersion     string  `mapstructure:"api_version"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
}

type AgentConfig struct {
	Iterations int    `mapstructure:"iterations"`
	Strategy   string `mapstructure:"strategy"`
}

type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Model ModelConfig `mapstructure:"model"`
	Agent AgentConfig `mapstructure:"agent"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Model: ModelConfig{
			Provider:       ProviderOpenAI,
			Name:           openai.DefaultModel,
			EmbeddingModel: openai.DefaultEmbeddingModel,
			MaxTokens:      agent.DefaultMaxTokens,
			Temperature:    0,
		},
		Agent: AgentConfig{
			Iterations: agent.DefaultIterations,
			Strategy:   string(parser.ChainOfThought),
		},
	}
}

// Load reads the configuration. path names a config file; when empty, langworkflow.yaml
// is looked up in the working directory and in $HOME/.langworkflow, and a missing file
// is not an error. Environment variables override the file.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("langworkflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.langworkflow/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", config.Log.Level)

	v.SetDefault("model.provider", config.Model.Provider)
	v.SetDefault("model.name", config.Model.Name)
	v.SetDefault("model.api_key", config.Model.APIKey)
	v.SetDefault("model.base_url", config.Model.BaseURL)
	v.SetDefault("model.api_version", config.Model.APIVersion)
	v.SetDefault("model.embedding_model", config.Model.EmbeddingModel)
	v.SetDefault("model.max_tokens", config.Model.MaxTokens)
	v.SetDefault("model.temperature", config.Model.Temperature)

	v.SetDefault("agent.iterations", config.Agent.Iterations)
	v.SetDefault("agent.strategy", config.Agent.Strategy)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Model.Provider {
	case ProviderOpenAI:
	case ProviderAzure:
		if c.Model.BaseURL == "" {
			return fmt.Errorf("the azure provider needs a base URL")
		}
	default:
		return fmt.Errorf("invalid model provider: %s", c.Model.Provider)
	}

	if c.Model.Name == "" {
		return fmt.Errorf("the model name cannot be empty")
	}

	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("the temperature must be between 0 and 2")
	}

	if c.Agent.Iterations < 0 {
		return fmt.Errorf("iterations cannot be negative")
	}

	if _, err := parser.ParsePromptingStrategy(c.Agent.Strategy); err != nil {
		return err
	}

	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.LogLevel {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LogLevelInfo
	}
	return level
}

// Options returns the llms/openai options of the model configuration.
func (m ModelConfig) Options() []openai.Option {
	opts := []openai.Option{
		openai.WithModel(m.Name),
		openai.WithEmbeddingModel(m.EmbeddingModel),
	}
	if m.APIKey != "" {
		opts = append(opts, openai.WithAPIKey(m.APIKey))
	}
	if m.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(m.BaseURL))
	}
	if m.Provider == ProviderAzure {
		opts = append(opts, openai.WithAzure(m.APIVersion))
	}
	return opts
}

// AgentOptions returns the agent options of the configuration.
func (c *Config) AgentOptions() []agent.Option {
	opts := []agent.Option{
		agent.WithIterations(c.Agent.Iterations),
		agent.WithMaxTokens(c.Model.MaxTokens),
		agent.WithModelName(c.Model.Name),
		agent.WithStrategy(parser.PromptingStrategy(c.Agent.Strategy)),
	}
	if c.Model.Temperature > 0 {
		opts = append(opts, agent.WithTemperature(c.Model.Temperature))
	}
	return opts
}
