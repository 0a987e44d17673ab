// Package config loads and persists global CLI configuration from
// ~/.autolysis/config.yaml, environment variables, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ModelSpec describes a user-supplied model entry merged into the catalog.
type ModelSpec struct {
	ContextTokens int     `mapstructure:"context_tokens" yaml:"context_tokens"`
	InputPerK     float64 `mapstructure:"input_per_k" yaml:"input_per_k"`
	OutputPerK    float64 `mapstructure:"output_per_k" yaml:"output_per_k"`
}

// Global configuration structure.
type Global struct {
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL         string  `mapstructure:"base_url" yaml:"base_url"`
	DefaultModel    string  `mapstructure:"default_model" yaml:"default_model"`
	DefaultProvider string  `mapstructure:"default_provider" yaml:"default_provider"`
	MaxTokens       int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`

	// Workspaces for organizing analysis runs
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`

	// User-supplied additions to the model catalog
	CustomModels map[string]ModelSpec `mapstructure:"custom_models" yaml:"custom_models,omitempty"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.autolysis/config.yaml, creating the directory if
// necessary. The file may hold the API token, so it is written 0600.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".autolysis")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOLYSIS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("default_model", "gpt-4o-mini")
	v.SetDefault("default_provider", "aiproxy")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.7)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 60)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".autolysis")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Token env var shared with the upstream analysis service.
	if c.APIKey == "" {
		c.APIKey = os.Getenv("AIPROXY_TOKEN")
	}
	// Resolve workspaces_dir default: ~/.autolysis/workspaces
	if c.WorkspacesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.WorkspacesDir = filepath.Join(home, ".autolysis", "workspaces")
	}
	return &c, nil
}
