// Package sandbox confines all filesystem access to a single project root.
// Every path argument, whether user-supplied or model-supplied, is resolved
// against the root before any read or mutation; symlinks and ".." traversal
// cannot escape it.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scaffolder/pkg/logx"
)

// Sandbox exposes file operations rooted at a fixed project directory.
// The root is an explicit constructor argument so multiple isolated
// sandboxes can coexist in one process (tests, concurrent runs).
type Sandbox struct {
	root   string
	logger *logx.Logger
}

// DefaultRootName is the directory created under the working directory when
// no explicit root is configured.
const DefaultRootName = "generated_project"

// New creates a sandbox rooted at the given directory. The directory is not
// created until Init is called.
func New(root string) *Sandbox {
	return &Sandbox{
		root:   root,
		logger: logx.NewLogger("sandbox"),
	}
}

// Init idempotently creates the project root directory tree. This is the only
// sandbox operation permitted to fail fatally: it runs before the sandbox is
// usable at all.
func (s *Sandbox) Init() (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to initialize project root %s: %w", s.root, err)
	}
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root %s: %w", s.root, err)
	}
	s.logger.Info("project root initialized: %s", abs)
	return abs, nil
}

// Root returns the resolved project root. It never fails; a missing root is
// logged, not treated as an error.
func (s *Sandbox) Root() string {
	abs, err := filepath.Abs(s.root)
	if err != nil {
		return s.root
	}
	abs = resolveExisting(abs)
	if _, statErr := os.Stat(abs); statErr != nil {
		s.logger.Warn("project root does not exist yet: %s", abs)
	}
	return abs
}

// Resolve validates and resolves a path relative to the project root.
// It fails with ErrInvalidPath for empty input and ErrPathEscape when the
// fully resolved path is neither the root nor a descendant of it.
func (s *Sandbox) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path cannot be empty or whitespace", ErrInvalidPath)
	}

	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve root %s: %v", ErrInvalidPath, s.root, err)
	}
	rootResolved := resolveExisting(rootAbs)

	joined := filepath.Join(rootAbs, path)
	resolved := resolveExisting(joined)

	if !within(rootResolved, resolved) {
		return "", fmt.Errorf("%w: %q resolves outside project root", ErrPathEscape, path)
	}
	return resolved, nil
}

// resolveExisting resolves symlinks in the deepest existing ancestor of p and
// rejoins the non-existing remainder. A brand-new file under a symlinked
// parent still resolves to its real location.
func resolveExisting(p string) string {
	remainder := ""
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, remainder)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		remainder = filepath.Join(filepath.Base(cur), remainder)
		cur = parent
	}
}

// within reports whether p equals root or is a descendant of it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// relToRoot converts an absolute sandboxed path back to a root-relative one
// for receipts and listings.
func (s *Sandbox) relToRoot(abs string) string {
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(resolveExisting(rootAbs), abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// WriteFile writes content to the resolved path, creating missing parent
// directories and overwriting any existing file. Content is written verbatim
// with no newline translation. Returns the root-relative path written.
func (s *Sandbox) WriteFile(path, content string) (string, error) {
	p, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create parent directories for %s: %w", path, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	rel := s.relToRoot(p)
	s.logger.Info("wrote %d bytes to %s", len(content), rel)
	return rel, nil
}

// ReadFile returns the content of the resolved file. A missing file is not an
// error: callers use the empty string to detect "no prior content".
func (s *Sandbox) ReadFile(path string) (string, error) {
	p, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(data), nil
}

// ListFiles recursively enumerates regular files under the resolved
// directory, returning root-relative paths in lexicographic order. An empty
// directory yields an empty slice, not an error.
func (s *Sandbox) ListFiles(dir string) ([]string, error) {
	p, err := s.Resolve(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	var files []string
	walkErr := filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			// Skip unreadable entries rather than aborting the listing.
			s.logger.Warn("skipping unreadable entry under %s: %v", dir, err)
			return nil
		}
		if fi.Mode().IsRegular() {
			files = append(files, s.relToRoot(path))
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", dir, walkErr)
	}
	sort.Strings(files)
	return files, nil
}
