package tools

import (
	"context"
	"fmt"
	"strings"

	"scaffolder/pkg/sandbox"
)

// NoFilesFound is the sentinel result for an empty listing. The tool loop
// expects a non-empty textual result, never an error, for this case.
const NoFilesFound = "No files found."

// ListFilesTool recursively lists files under a directory in the project root.
type ListFilesTool struct {
	sb   *sandbox.Sandbox
	name string
}

// NewListFilesTool creates a new list_files tool.
func NewListFilesTool(sb *sandbox.Sandbox) *ListFilesTool {
	return &ListFilesTool{sb: sb, name: ToolListFiles}
}

// NewListFilesAliasTool creates the namespaced alias sharing the same
// implementation, for models that expect a repo-browser style name.
func NewListFilesAliasTool(sb *sandbox.Sandbox) *ListFilesTool {
	return &ListFilesTool{sb: sb, name: ToolListFilesAlias}
}

// Name returns the tool name.
func (t *ListFilesTool) Name() string {
	return t.name
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *ListFilesTool) PromptDocumentation() string {
	return `- **list_files** - List all files in the specified directory within the project root
  - Parameters: directory (string, default "."): directory relative to the project root
  - Recursively lists files as sorted root-relative paths, one per line`
}

// Definition returns the tool definition for the LLM.
func (t *ListFilesTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        t.name,
		Description: "List all files in the specified directory within the project root. Recursively searches subdirectories.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"directory": {
					Type:        "string",
					Description: "Directory path relative to the project root. Defaults to the root itself.",
				},
			},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *ListFilesTool) Exec(_ context.Context, args map[string]any) (*ExecResult, error) {
	directory, _ := args["directory"].(string)
	if directory == "" {
		directory = "."
	}

	files, err := t.sb.ListFiles(directory)
	if err != nil {
		return &ExecResult{Content: fmt.Sprintf("ERROR: failed to list files in %q: %v", directory, err)}, nil
	}
	if len(files) == 0 {
		return &ExecResult{Content: NoFilesFound}, nil
	}
	return &ExecResult{Content: strings.Join(files, "\n")}, nil
}
