// Package tools provides the tool registry and the sandboxed file tools
// exposed to the coder's tool-calling loop.
package tools

import "context"

// Property describes one parameter in a tool's input schema.
type Property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []string             `json:"enum,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
}

// InputSchema describes a tool's parameters as a JSON schema fragment.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// ToolDefinition is the LLM-facing description of a tool.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// ExecResult is the outcome of a tool execution. Content is always a string
// the model can reason over: sandbox tools encode failures as
// "ERROR: <message>" rather than returning Go errors.
type ExecResult struct {
	Content string
}

// Tool is a callable capability exposed to the tool-calling loop.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string
	// Definition returns the tool definition for the LLM.
	Definition() ToolDefinition
	// Exec executes the tool with the given arguments. Anticipated failures
	// are encoded in the result content; a returned error means the loop
	// itself is broken (nil result, malformed registry state).
	Exec(ctx context.Context, args map[string]any) (*ExecResult, error)
	// PromptDocumentation returns formatted tool documentation for prompts.
	PromptDocumentation() string
}
