package tools

// Tool name constants - use these instead of magic strings to prevent typos
// and enable compile-time checking.
const (
	ToolReadFile            = "read_file"
	ToolWriteFile           = "write_file"
	ToolListFiles           = "list_files"
	ToolGetCurrentDirectory = "get_current_directory"
	ToolRunCommand          = "run_command"

	// ToolListFilesAlias is a namespaced alias for list_files kept for models
	// that expect repo-browser style tool names. Same implementation.
	ToolListFilesAlias = "repo_browser.list_files"
)

// CoderTools is the allow-list handed to the coder's tool loop. The alias is
// included so either name resolves; run_command is a registered capability
// but deliberately not part of the coder's set.
//
//nolint:gochecknoglobals // Shared allow-list constant.
var CoderTools = []string{
	ToolReadFile,
	ToolWriteFile,
	ToolListFiles,
	ToolGetCurrentDirectory,
	ToolListFilesAlias,
}
