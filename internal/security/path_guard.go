package security

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quickindex/qdi/internal/debug"
)

// PathGuard validates that candidate file paths stay inside a configured
// root directory. Every cache read/write and every indexing walk goes
// through it, so traversal inputs like "../../etc/passwd" or smuggled
// absolute paths never reach the filesystem layer.
type PathGuard struct{}

// NewPathGuard creates a new path guard
func NewPathGuard() *PathGuard {
	return &PathGuard{}
}

// Validate reports whether path, after symlink resolution, lies strictly
// inside root. Relative paths are interpreted relative to root. Any
// resolution failure (missing segments, permission errors) yields false,
// never an error that aborts the caller.
func (pg *PathGuard) Validate(path, root string) bool {
	if path == "" || root == "" {
		return false
	}

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		debug.Log("GUARD", "root %s failed to resolve: %v\n", root, err)
		return false
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(canonicalRoot, candidate)
	}

	canonicalPath, err := canonicalize(candidate)
	if err != nil {
		debug.Log("GUARD", "path %s failed to resolve: %v\n", path, err)
		return false
	}

	return isWithin(canonicalPath, canonicalRoot)
}

// Resolve validates path against root and returns its canonical absolute
// form. The boolean mirrors Validate.
func (pg *PathGuard) Resolve(path, root string) (string, bool) {
	if !pg.Validate(path, root) {
		return "", false
	}

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return "", false
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(canonicalRoot, candidate)
	}

	canonicalPath, err := canonicalize(candidate)
	if err != nil {
		return "", false
	}
	return canonicalPath, true
}

// canonicalize returns the symlink-resolved absolute form of p.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// isWithin reports whether path is a proper descendant of root.
// The root itself is not a valid file path.
func isWithin(path, root string) bool {
	if path == root {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
