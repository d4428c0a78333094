package tools

import (
	"fmt"

	"scaffolder/pkg/sandbox"
)

func requireSandbox(ctx ToolContext, name string) (*sandbox.Sandbox, error) {
	if ctx.Sandbox == nil {
		return nil, fmt.Errorf("%s tool requires a sandbox", name)
	}
	return ctx.Sandbox, nil
}

func createReadFileTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolReadFile)
	if err != nil {
		return nil, err
	}
	return NewReadFileTool(sb), nil
}

func createWriteFileTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolWriteFile)
	if err != nil {
		return nil, err
	}
	return NewWriteFileTool(sb), nil
}

func createListFilesTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolListFiles)
	if err != nil {
		return nil, err
	}
	return NewListFilesTool(sb), nil
}

func createListFilesAliasTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolListFilesAlias)
	if err != nil {
		return nil, err
	}
	return NewListFilesAliasTool(sb), nil
}

func createGetCurrentDirectoryTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolGetCurrentDirectory)
	if err != nil {
		return nil, err
	}
	return NewGetCurrentDirectoryTool(sb), nil
}

func createRunCommandTool(ctx ToolContext) (Tool, error) {
	sb, err := requireSandbox(ctx, ToolRunCommand)
	if err != nil {
		return nil, err
	}
	return NewRunCommandTool(sb), nil
}

// init registers all tools in the global registry using the factory pattern.
// Schemas are extracted from tool instances so metadata cannot drift from the
// implementations.
//
//nolint:gochecknoinits // Factory pattern requires init() for tool registration.
func init() {
	Register(ToolReadFile, createReadFileTool, &ToolMeta{
		Name:        ToolReadFile,
		Description: "Read content from a file within the project root",
		InputSchema: NewReadFileTool(nil).Definition().InputSchema,
	})
	Register(ToolWriteFile, createWriteFileTool, &ToolMeta{
		Name:        ToolWriteFile,
		Description: "Write content to a file within the project root",
		InputSchema: NewWriteFileTool(nil).Definition().InputSchema,
	})
	Register(ToolListFiles, createListFilesTool, &ToolMeta{
		Name:        ToolListFiles,
		Description: "List all files in a directory within the project root",
		InputSchema: NewListFilesTool(nil).Definition().InputSchema,
	})
	Register(ToolListFilesAlias, createListFilesAliasTool, &ToolMeta{
		Name:        ToolListFilesAlias,
		Description: "Lists files within the generated project (alias of list_files)",
		InputSchema: NewListFilesAliasTool(nil).Definition().InputSchema,
	})
	Register(ToolGetCurrentDirectory, createGetCurrentDirectoryTool, &ToolMeta{
		Name:        ToolGetCurrentDirectory,
		Description: "Get the current working directory (the project root)",
		InputSchema: NewGetCurrentDirectoryTool(nil).Definition().InputSchema,
	})
	Register(ToolRunCommand, createRunCommandTool, &ToolMeta{
		Name:        ToolRunCommand,
		Description: "Execute a shell command inside the project root",
		InputSchema: NewRunCommandTool(nil).Definition().InputSchema,
	})
}
