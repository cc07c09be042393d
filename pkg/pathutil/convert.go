// Package pathutil provides conversion between absolute and root-relative
// paths.
//
// The engine keys every cache entry by root-relative path, but callers
// (CLI arguments, MCP tool parameters) frequently supply absolute paths.
// This package is the normalization layer at those boundaries.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or the path is already
// relative.
//
// Examples:
//   - ToRelative("/home/user/notes/docs/a.md", "/home/user/notes/docs") → "a.md"
//   - ToRelative("/other/place/a.md", "/home/user/notes/docs") → "/other/place/a.md" (outside root)
//   - ToRelative("a.md", "/home/user/notes/docs") → "a.md" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// Outside the root: the absolute form is clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return filepath.ToSlash(relPath)
}
