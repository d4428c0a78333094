package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffolder/pkg/agent/llmimpl"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, llmimpl.BackendAnthropic, cfg.Backend)
	assert.True(t, filepath.IsAbs(cfg.ProjectRoot))
	assert.Equal(t, "generated_project", filepath.Base(cfg.ProjectRoot))
	assert.Equal(t, 100, cfg.MaxIterations)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 70, cfg.Retry.WaitSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: ollama
model: qwen3
ollama_host: http://ollama:11434
max_iterations: 10
tool_loop_iterations: 4
compact_threshold: 8000
retry:
  max_retries: 2
  wait_seconds: 1
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Backend)
	assert.Equal(t, "qwen3", cfg.Model)
	assert.Equal(t, "http://ollama:11434", cfg.OllamaHost)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, 4, cfg.ToolLoopIterations)
	assert.Equal(t, 8000, cfg.CompactThreshold)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	// Unset fields keep defaults.
	assert.NotEmpty(t, cfg.ProjectRoot)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: openai\n"), 0644))
	t.Setenv("SCAFFOLDER_BACKEND", "google")
	t.Setenv("SCAFFOLDER_MODEL", "gemini-2.5-pro")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.Backend)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: groq\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAPIKeyResolution(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "default-key")
	t.Setenv("MY_KEY", "custom-key")

	cfg := Default()
	assert.Equal(t, "default-key", cfg.APIKey())

	cfg.APIKeyEnv = "MY_KEY"
	assert.Equal(t, "custom-key", cfg.APIKey())

	cfg = Default()
	cfg.Backend = llmimpl.BackendOllama
	assert.Empty(t, cfg.APIKey())
}

func TestOrchOptionsCarryRunKnobs(t *testing.T) {
	cfg := Default()
	cfg.MaxIterations = 7
	cfg.ToolLoopIterations = 4
	cfg.CompactThreshold = 8000
	cfg.Retry = RetryConfig{MaxRetries: 2, WaitSeconds: 1}

	opts := cfg.OrchOptions()
	assert.Equal(t, 7, opts.MaxIterations)
	assert.Equal(t, 4, opts.ToolLoopIterations)
	assert.Equal(t, 8000, opts.CompactThreshold)
	assert.Equal(t, 2, opts.Retry.MaxRetries)
	assert.Equal(t, time.Second, opts.Retry.Wait)
}

func TestRetryOptions(t *testing.T) {
	cfg := Default()
	cfg.Retry = RetryConfig{MaxRetries: 3, WaitSeconds: 2}
	opts := cfg.RetryOptions()
	assert.Equal(t, 3, opts.MaxRetries)
	assert.Equal(t, 2*time.Second, opts.Wait)
}
