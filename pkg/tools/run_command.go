package tools

import (
	"context"
	"fmt"
	"time"

	"scaffolder/pkg/sandbox"
)

// RunCommandTool executes a shell command inside the sandboxed project root.
// Registered as a capability but not part of the coder's allow-list.
type RunCommandTool struct {
	sb *sandbox.Sandbox
}

// NewRunCommandTool creates a new run_command tool.
func NewRunCommandTool(sb *sandbox.Sandbox) *RunCommandTool {
	return &RunCommandTool{sb: sb}
}

// Name returns the tool name.
func (t *RunCommandTool) Name() string {
	return ToolRunCommand
}

// PromptDocumentation returns formatted tool documentation for prompts.
func (t *RunCommandTool) PromptDocumentation() string {
	return `- **run_command** - Execute a shell command inside the project root
  - Parameters:
    - cmd (string, REQUIRED): command to execute
    - cwd (string, optional): working directory relative to the project root
    - timeout_seconds (integer, default 30): command timeout`
}

// Definition returns the tool definition for the LLM.
func (t *RunCommandTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        ToolRunCommand,
		Description: "Execute a shell command inside the project root, capturing exit code, stdout and stderr.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"cmd": {
					Type:        "string",
					Description: "Command to execute",
				},
				"cwd": {
					Type:        "string",
					Description: "Working directory relative to the project root (default: the root)",
				},
				"timeout_seconds": {
					Type:        "integer",
					Description: "Command timeout in seconds (default: 30)",
				},
			},
			Required: []string{"cmd"},
		},
	}
}

// Exec executes the tool with the given arguments.
func (t *RunCommandTool) Exec(ctx context.Context, args map[string]any) (*ExecResult, error) {
	cmd, _ := args["cmd"].(string)
	cwd, _ := args["cwd"].(string)

	timeout := sandbox.DefaultCommandTimeout
	if secs, ok := args["timeout_seconds"].(float64); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	code, stdout, stderr := t.sb.RunCommand(ctx, cmd, cwd, timeout)
	return &ExecResult{
		Content: fmt.Sprintf("exit_code: %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr),
	}, nil
}
