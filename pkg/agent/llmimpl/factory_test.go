package llmimpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientSelectsBackend(t *testing.T) {
	tests := []struct {
		name      string
		settings  Settings
		wantModel string
		wantErr   bool
	}{
		{"anthropic default model", Settings{Backend: BackendAnthropic, APIKey: "k"}, "claude-sonnet-4-5", false},
		{"openai custom model", Settings{Backend: BackendOpenAI, APIKey: "k", Model: "gpt-5-mini"}, "gpt-5-mini", false},
		{"google", Settings{Backend: BackendGoogle, APIKey: "k"}, "gemini-2.5-flash", false},
		{"ollama", Settings{Backend: BackendOllama, Model: "qwen3"}, "qwen3", false},
		{"case insensitive", Settings{Backend: "Anthropic", APIKey: "k"}, "claude-sonnet-4-5", false},
		{"anthropic missing key", Settings{Backend: BackendAnthropic}, "", true},
		{"openai missing key", Settings{Backend: BackendOpenAI}, "", true},
		{"ollama missing model", Settings{Backend: BackendOllama}, "", true},
		{"unknown backend", Settings{Backend: "groq", APIKey: "k"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, client.GetModelName())
		})
	}
}
