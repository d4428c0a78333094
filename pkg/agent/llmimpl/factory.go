// Package llmimpl selects and constructs concrete llm.Client backends.
package llmimpl

import (
	"fmt"
	"strings"

	"scaffolder/pkg/agent/llm"
	"scaffolder/pkg/agent/llmimpl/anthropic"
	"scaffolder/pkg/agent/llmimpl/google"
	"scaffolder/pkg/agent/llmimpl/ollama"
	"scaffolder/pkg/agent/llmimpl/openai"
)

// Supported backend names.
const (
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
	BackendGoogle    = "google"
	BackendOllama    = "ollama"
)

// Settings selects a backend client.
type Settings struct {
	// Backend is one of the Backend* constants.
	Backend string

	// Model overrides the backend's default model when non-empty.
	Model string

	// APIKey authenticates hosted backends; unused for ollama.
	APIKey string

	// HostURL points at the Ollama server; unused elsewhere.
	HostURL string
}

// NewClient constructs the raw client for the selected backend. Middleware
// is applied by the caller via llm.Chain.
func NewClient(s Settings) (llm.Client, error) {
	switch strings.ToLower(s.Backend) {
	case BackendAnthropic:
		if s.APIKey == "" {
			return nil, fmt.Errorf("anthropic backend requires an API key")
		}
		return anthropic.New(s.APIKey, s.Model), nil
	case BackendOpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("openai backend requires an API key")
		}
		return openai.New(s.APIKey, s.Model), nil
	case BackendGoogle:
		if s.APIKey == "" {
			return nil, fmt.Errorf("google backend requires an API key")
		}
		return google.New(s.APIKey, s.Model), nil
	case BackendOllama:
		if s.Model == "" {
			return nil, fmt.Errorf("ollama backend requires a model name")
		}
		return ollama.New(s.HostURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (supported: %s, %s, %s, %s)",
			s.Backend, BackendAnthropic, BackendOpenAI, BackendGoogle, BackendOllama)
	}
}
