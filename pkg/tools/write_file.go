package tools

import (
	"context"
	"fmt"

	"scaffolder/pkg/sandbox"
)

// WriteFileTool writes file contents under the sandboxed project root.
type WriteFileTool struct {
	sb *sandbox.Sandbox
}

// NewWriteFileTool creates a new write_file tool.
func NewWriteFileTool(sb *sandbox.Sandbox) *WriteFileTool {
	return &WriteFileTool{sb: sb}
}

// Name returns the tool name.
func (t *WriteFileTool) Name() string {
	return ToolWriteFile
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *WriteFileTool) PromptDocumentation() string {
	return `- **write_file** - Write content to a file at the specified path
  - Parameters:
    - path (string, REQUIRED): file path relative to the project root
    - content (string): content to write; missing content writes an empty file
  - Creates parent directories and overwrites any existing file
  - Returns "WROTE:<path>" on success`
}

// Definition returns the tool definition for the LLM.
func (t *WriteFileTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolWriteFile,
		Description: "Write content to a file at the specified path within the project root. Creates parent directories if they don't exist and overwrites any existing file.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"path": {
					Type:        "string",
					Description: "File path relative to the project root",
				},
				"content": {
					Type:        "string",
					Description: "Content to write to the file",
				},
			},
			Required: []string{"path"},
		},
	}
}

// Exec executes the tool with the given arguments. A missing or null content
// argument is treated as an empty string.
func (t *WriteFileTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)

	rel, err := t.sb.WriteFile(path, content)
	if err != nil {
		return &ExecResult{Content: fmt.Sprintf("ERROR: failed to write file %q: %v", path, err)}, nil
	}
	return &ExecResult{Content: "WROTE:" + rel}, nil
}
