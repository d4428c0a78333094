package tools

import (
	"context"

	"scaffolder/pkg/sandbox"
)

// GetCurrentDirectoryTool reports the resolved project root.
type GetCurrentDirectoryTool struct {
	sb *sandbox.Sandbox
}

// NewGetCurrentDirectoryTool creates a new get_current_directory tool.
func NewGetCurrentDirectoryTool(sb *sandbox.Sandbox) *GetCurrentDirectoryTool {
	return &GetCurrentDirectoryTool{sb: sb}
}

// Name returns the tool name.
func (t *GetCurrentDirectoryTool) Name() string {
	return ToolGetCurrentDirectory
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *GetCurrentDirectoryTool) PromptDocumentation() string {
	return `- **get_current_directory** - Get the current working directory (the project root)
  - Parameters: none`
}

// Definition returns the tool definition for the LLM.
func (t *GetCurrentDirectoryTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolGetCurrentDirectory,
		Description: "Get the current working directory (the project root).",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{},
		},
	}
}

// Exec executes the tool. It has no side effects and never fails.
func (t *GetCurrentDirectoryTool) Exec(_ context.Context, _ map[string]any) (*ExecResult, error) {
	return &ExecResult{Content: t.sb.Root()}, nil
}
