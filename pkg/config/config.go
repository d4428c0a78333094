// Package config loads and validates runtime configuration from an optional
// YAML file plus environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"scaffolder/pkg/agent/llmimpl"
	"scaffolder/pkg/agent/retry"
	"scaffolder/pkg/orch"
	"scaffolder/pkg/sandbox"
)

// RetryConfig tunes the rate-limit retry wrapper.
type RetryConfig struct {
	MaxRetries  int `yaml:"max_retries"`
	WaitSeconds int `yaml:"wait_seconds"`
}

// Config is the full runtime configuration.
type Config struct {
	// Backend selects the LLM provider (anthropic, openai, google, ollama).
	Backend string `yaml:"backend"`

	// Model overrides the backend's default model.
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the API key. Empty
	// selects the backend's conventional variable.
	APIKeyEnv string `yaml:"api_key_env"`

	// OllamaHost points at the Ollama server for the ollama backend.
	OllamaHost string `yaml:"ollama_host"`

	// ProjectRoot is the sandboxed directory generated code lands in.
	ProjectRoot string `yaml:"project_root"`

	// EventLogDir receives the JSONL run journal; empty disables it.
	EventLogDir string `yaml:"event_log_dir"`

	// MetricsAddr is the optional Prometheus listen address.
	MetricsAddr string `yaml:"metrics_addr"`

	// MaxIterations caps coder invocations per run.
	MaxIterations int `yaml:"max_iterations"`

	// ToolLoopIterations caps LLM round trips inside one coder step.
	ToolLoopIterations int `yaml:"tool_loop_iterations"`

	// CompactThreshold triggers coder context compaction above this many
	// tokens; 0 disables compaction.
	CompactThreshold int `yaml:"compact_threshold"`

	Retry RetryConfig `yaml:"retry"`
}

// Default returns the configuration used when no file or flags override it.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Backend:       llmimpl.BackendAnthropic,
		ProjectRoot:   filepath.Join(cwd, sandbox.DefaultRootName),
		MaxIterations: orch.DefaultMaxIterations,
		Retry: RetryConfig{
			MaxRetries:  retry.DefaultMaxRetries,
			WaitSeconds: int(retry.DefaultWait / time.Second),
		},
	}
}

// Load reads a YAML config file over the defaults and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets the environment override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCAFFOLDER_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SCAFFOLDER_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("SCAFFOLDER_PROJECT_ROOT"); v != "" {
		c.ProjectRoot = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" && c.OllamaHost == "" {
		c.OllamaHost = v
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case llmimpl.BackendAnthropic, llmimpl.BackendOpenAI, llmimpl.BackendGoogle, llmimpl.BackendOllama:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.ProjectRoot == "" {
		return fmt.Errorf("project_root cannot be empty")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Retry.MaxRetries <= 0 {
		return fmt.Errorf("retry.max_retries must be positive, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.WaitSeconds < 0 {
		return fmt.Errorf("retry.wait_seconds cannot be negative, got %d", c.Retry.WaitSeconds)
	}
	if c.ToolLoopIterations < 0 {
		return fmt.Errorf("tool_loop_iterations cannot be negative, got %d", c.ToolLoopIterations)
	}
	if c.CompactThreshold < 0 {
		return fmt.Errorf("compact_threshold cannot be negative, got %d", c.CompactThreshold)
	}
	return nil
}

// OrchOptions converts the run knobs to the orchestrator's option struct.
// The event writer is attached by the caller.
func (c *Config) OrchOptions() orch.Options {
	return orch.Options{
		MaxIterations:      c.MaxIterations,
		Retry:              c.RetryOptions(),
		ToolLoopIterations: c.ToolLoopIterations,
		CompactThreshold:   c.CompactThreshold,
	}
}

// APIKey resolves the backend API key from the environment.
func (c *Config) APIKey() string {
	envName := c.APIKeyEnv
	if envName == "" {
		switch c.Backend {
		case llmimpl.BackendAnthropic:
			envName = "ANTHROPIC_API_KEY"
		case llmimpl.BackendOpenAI:
			envName = "OPENAI_API_KEY"
		case llmimpl.BackendGoogle:
			envName = "GEMINI_API_KEY"
		default:
			return ""
		}
	}
	return os.Getenv(envName)
}

// RetryOptions converts the retry knobs to the wrapper's option struct.
func (c *Config) RetryOptions() retry.Options {
	return retry.Options{
		MaxRetries: c.Retry.MaxRetries,
		Wait:       time.Duration(c.Retry.WaitSeconds) * time.Second,
	}
}
