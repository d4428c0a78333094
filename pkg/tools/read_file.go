package tools

import (
	"context"
	"fmt"

	"scaffolder/pkg/sandbox"
)

// ReadFileTool reads file contents from the sandboxed project root.
type ReadFileTool struct {
	sb *sandbox.Sandbox
}

// NewReadFileTool creates a new read_file tool.
func NewReadFileTool(sb *sandbox.Sandbox) *ReadFileTool {
	return &ReadFileTool{sb: sb}
}

// Name returns the tool name.
func (t *ReadFileTool) Name() string {
	return ToolReadFile
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *ReadFileTool) PromptDocumentation() string {
	return `- **read_file** - Read content from a file at the specified path
  - Parameters: path (string, REQUIRED): file path relative to the project root
  - Returns the file content, or an empty string if the file does not exist`
}

// Definition returns the tool definition for the LLM.
func (t *ReadFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolReadFile,
		Description: "Read content from a file at the specified path within the project root. Returns empty string if the file does not exist.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"path": {
					Type:        "string",
					Description: "File path relative to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *ReadFileTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	path, _ := args["path"].(string)
	content, err := t.sb.ReadFile(path)
	if err != nil {
		return &ExecResult{Content: fmt.Sprintf("ERROR: failed to read file %q: %v", path, err)}, nil
	}
	return &ExecResult{Content: content}, nil
}
