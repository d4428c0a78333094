package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds command execution when no timeout is given.
const DefaultCommandTimeout = 30 * time.Second

// RunCommand executes a shell command with cwd resolved through the sandbox
// (default: project root). Failures are encoded in the (exitCode, stdout,
// stderr) result rather than returned as errors, because the caller is an
// agent loop that reasons over textual results.
func (s *Sandbox) RunCommand(ctx context.Context, cmd, cwd string, timeout time.Duration) (int, string, string) {
	if strings.TrimSpace(cmd) == "" {
		return 1, "", "command cannot be empty"
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	workDir := s.Root()
	if cwd != "" {
		resolved, err := s.Resolve(cwd)
		if err != nil {
			return 1, "", fmt.Sprintf("invalid working directory %q: %v", cwd, err)
		}
		workDir = resolved
	}
	if info, err := os.Stat(workDir); err != nil {
		return 1, "", fmt.Sprintf("working directory does not exist: %s", workDir)
	} else if !info.IsDir() {
		return 1, "", fmt.Sprintf("working directory is not a directory: %s", workDir)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execCmd := exec.CommandContext(runCtx, "sh", "-c", cmd)
	execCmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	s.logger.Info("executing command: %q in %s", cmd, workDir)
	err := execCmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return 1, "", fmt.Sprintf("command %q timed out after %s", cmd, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stdout.String(), stderr.String()
		}
		return 1, "", fmt.Sprintf("failed to execute command %q: %v", cmd, err)
	}
	return 0, stdout.String(), stderr.String()
}
