package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quickindex/qdi/internal/debug"
	qdierrors "github.com/quickindex/qdi/internal/errors"
)

// walkRoot enumerates files under the root matching its glob pattern and
// feeds each through the read-through cache path, which loads, bounds-checks
// and indexes it. Per-file failures count as skips and never abort the walk;
// only a root-level walk error propagates.
func (e *Engine) walkRoot(ctx context.Context, rs *rootState) (indexed, skipped int, err error) {
	if !rs.usable() {
		debug.Warnf("skipping walk of unusable root %s (%s)\n", rs.root.Kind, rs.root.Path)
		return 0, 0, nil
	}

	visitedDirs := make(map[string]bool)

	err = filepath.WalkDir(rs.resolvedPath, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if path == rs.resolvedPath {
				return walkErr
			}
			skipped++
			return nil
		}

		rel, relErr := filepath.Rel(rs.resolvedPath, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Symlink cycle guard
			realPath, resolveErr := filepath.EvalSymlinks(path)
			if resolveErr != nil {
				return filepath.SkipDir
			}
			if visitedDirs[realPath] {
				return filepath.SkipDir
			}
			visitedDirs[realPath] = true

			if path != rs.resolvedPath && e.shouldExcludeDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if e.shouldExclude(rel) {
			return nil
		}

		matched, matchErr := doublestar.Match(rs.root.Pattern, rel)
		if matchErr != nil || !matched {
			return nil
		}

		if _, ok := e.getContent(rs, rel); ok {
			indexed++
		} else {
			skipped++
		}
		return nil
	})

	debug.LogIndexing("walk of %s complete: %d indexed, %d skipped\n", rs.root.Kind, indexed, skipped)
	return indexed, skipped, err
}

// shouldExclude checks a root-relative file path against the exclusion globs
func (e *Engine) shouldExclude(rel string) bool {
	for _, pattern := range e.cfg.Exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			// Bad pattern shouldn't break scanning
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// shouldExcludeDir checks a directory path. A pattern of the form
// "**/name/**" also prunes the directory "name" itself so the walk never
// descends into it.
func (e *Engine) shouldExcludeDir(rel string) bool {
	if e.shouldExclude(rel) {
		return true
	}
	for _, pattern := range e.cfg.Exclude {
		trimmed, hadSuffix := strings.CutSuffix(pattern, "/**")
		if !hadSuffix {
			continue
		}
		if matched, err := doublestar.Match(trimmed, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// ReindexReport summarizes a full rebuild.
type ReindexReport struct {
	Indexed      int           `json:"indexed_count"`
	Skipped      int           `json:"skipped_count"`
	UniqueTokens int           `json:"unique_token_count"`
	Elapsed      time.Duration `json:"elapsed"`

	// Empty flags a rebuild that completed but found nothing, so callers
	// can detect a misconfigured root without treating it as a failure
	Empty bool `json:"empty_warning"`
}

// Reindex clears every root's cache, index, and bookkeeping, then re-walks
// all usable roots synchronously. An unexpected walk failure surfaces as an
// IndexRebuildError carrying the elapsed time up to that point.
func (e *Engine) Reindex(ctx context.Context) (*ReindexReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	for _, rs := range e.roots {
		rs.cache.Clear()
		rs.index.Clear()
	}
	e.initialized = false

	report := &ReindexReport{}
	for _, r := range e.cfg.Roots {
		rs := e.roots[r.Kind]
		indexed, skipped, err := e.walkRoot(ctx, rs)
		report.Indexed += indexed
		report.Skipped += skipped
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, qdierrors.NewIndexRebuildError(string(r.Kind), report.Elapsed, err)
		}
	}

	for _, rs := range e.roots {
		report.UniqueTokens += rs.index.TokenCount()
	}
	report.Elapsed = time.Since(start)
	e.initialized = true

	if report.Indexed == 0 || report.UniqueTokens == 0 {
		report.Empty = true
		debug.Warnf("reindex found no files or tokens - check the configured roots\n")
	}

	return report, nil
}
