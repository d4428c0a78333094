package sandbox

import "errors"

// Sentinel errors returned by sandbox operations. Callers classify failures
// with errors.Is rather than matching message text.
var (
	// ErrInvalidPath indicates an empty or whitespace-only path argument.
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathEscape indicates a path that resolves outside the project root.
	ErrPathEscape = errors.New("path escapes project root")

	// ErrNotAFile indicates a path that exists but is not a regular file.
	ErrNotAFile = errors.New("path is not a regular file")

	// ErrNotADirectory indicates a path that does not exist or is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")
)
