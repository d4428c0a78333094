package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"scaffolder/pkg/agent/llmerrors"
)

// GenerateStructured asks the model for a response conforming to the JSON
// schema derived from T and unmarshals the answer into a new T. This is the
// capability consumed by the planner and architect stages.
func GenerateStructured[T any](ctx context.Context, client Client, prompt string) (*T, error) {
	schemaJSON, err := schemaFor[T]()
	if err != nil {
		return nil, fmt.Errorf("failed to derive response schema: %w", err)
	}

	system := fmt.Sprintf(
		"Respond with a single JSON object that conforms to this JSON schema. "+
			"Output JSON only: no prose, no markdown fences.\n\nSchema:\n%s", schemaJSON)

	req := NewCompletionRequest([]CompletionMessage{
		NewSystemMessage(system),
		NewUserMessage(prompt),
	})

	resp, err := client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	payload := StripFences(resp.Content)
	if strings.TrimSpace(payload) == "" {
		return nil, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "model returned no structured content")
	}

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("failed to parse structured response: %w", err)
	}
	return &out, nil
}

// schemaFor renders the JSON schema for T as a compact string.
func schemaFor[T any]() (string, error) {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(T))
	data, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// StripFences removes a surrounding markdown code fence, which models emit
// even when told not to.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
