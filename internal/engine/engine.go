// Package engine owns the searchable state for every configured root: a
// bounded content cache and an inverted token index per root, maintained
// incrementally as files load, change, and disappear.
//
// One Engine instance is constructed at process start with explicit
// configuration and handed to the tool-dispatch layer; there is no
// module-level state. All mutable state sits behind a single coarse mutex,
// so no query ever observes a half-updated index.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/debug"
	qdierrors "github.com/quickindex/qdi/internal/errors"
	"github.com/quickindex/qdi/internal/index"
	"github.com/quickindex/qdi/internal/search"
	"github.com/quickindex/qdi/internal/security"
	"github.com/quickindex/qdi/internal/store"
)

// rootState is the independent cache/index pair for one configured root.
type rootState struct {
	root config.Root

	// resolvedPath is the canonical absolute root directory, or "" when
	// the configured path does not exist or is not a directory
	resolvedPath string

	cache *store.ContentCache
	index *index.InvertedIndex
}

// usable reports whether the root directory resolved at construction time.
func (rs *rootState) usable() bool {
	return rs.resolvedPath != ""
}

// Engine multiplexes up to three roots (docs/todo/src) behind one lock.
type Engine struct {
	mu sync.Mutex

	cfg       *config.Config
	guard     *security.PathGuard
	checker   *security.ContentChecker
	extractor *search.ContextExtractor
	suggester *search.Suggester

	roots       map[config.RootKind]*rootState
	initialized bool

	watcher *Watcher
}

// New constructs an engine for cfg. Roots whose directories are missing or
// not directories are kept but marked unusable with a warning; other roots
// still work. No disk walk happens until Initialize or the first search.
func New(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:       cfg,
		guard:     security.NewPathGuard(),
		checker:   security.NewContentChecker(),
		extractor: search.NewContextExtractor(),
		suggester: search.NewSuggester(),
		roots:     make(map[config.RootKind]*rootState, len(cfg.Roots)),
	}

	for _, r := range cfg.Roots {
		rs := &rootState{
			root:  r,
			cache: store.NewContentCache(cfg.Cache.MaxEntries, cfg.Cache.MaxFileBytes),
			index: index.NewInvertedIndex(),
		}
		if resolved, err := resolveRootDir(r.Path); err != nil {
			debug.Warnf("root %s (%s) is not usable: %v\n", r.Kind, r.Path, err)
		} else {
			rs.resolvedPath = resolved
		}
		e.roots[r.Kind] = rs
	}

	return e
}

// resolveRootDir canonicalizes a configured root directory.
func resolveRootDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return resolved, nil
}

// Initialize walks every usable root and populates the caches and indexes.
// Roots are walked in parallel; per-file failures degrade to skips. Safe to
// call more than once; later calls are no-ops.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initializeLocked(ctx)
}

// initializeLocked performs the first full walk. Caller holds e.mu.
func (e *Engine) initializeLocked(ctx context.Context) error {
	if e.initialized {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rs := range e.roots {
		rs := rs
		if !rs.usable() {
			continue
		}
		g.Go(func() error {
			indexed, skipped, err := e.walkRoot(gctx, rs)
			if err != nil {
				return err
			}
			debug.LogIndexing("initialized %s: %d indexed, %d skipped\n", rs.root.Kind, indexed, skipped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.initialized = true

	if e.cfg.Watch.Enabled && e.watcher == nil {
		w, err := NewWatcher(e, time.Duration(e.cfg.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			debug.Warnf("file watcher unavailable: %v\n", err)
		} else {
			e.watcher = w
			e.watcher.Start()
		}
	}

	return nil
}

// ensureInitializedLocked lazily runs the first walk. Caller holds e.mu.
func (e *Engine) ensureInitializedLocked(ctx context.Context) error {
	if e.initialized {
		return nil
	}
	return e.initializeLocked(ctx)
}

// rootFor returns the state for kind. Caller holds e.mu.
func (e *Engine) rootFor(kind config.RootKind) (*rootState, error) {
	rs, ok := e.roots[kind]
	if !ok {
		return nil, qdierrors.NewConfigError("root", string(kind), fmt.Errorf("unknown root kind"))
	}
	return rs, nil
}

// getContent is the read-through cache access for one root-relative path.
// It validates the path, detects on-disk changes via mtime (with an xxhash
// tiebreak so a touched-but-identical file skips the index diff), loads on
// miss, and keeps the inverted index in step with every mutation.
//
// Failures degrade to ("", false) with a warning; they never abort a batch
// caller. Caller holds e.mu.
func (e *Engine) getContent(rs *rootState, relPath string) (string, bool) {
	if !rs.usable() {
		return "", false
	}

	absPath, ok := e.guard.Resolve(relPath, rs.resolvedPath)
	if !ok {
		// Symlink resolution also fails for a file that was deleted
		// since it was cached, so a guard failure is not always a
		// traversal attempt
		if !e.dropVanished(rs, relPath) {
			debug.Warnf("%v\n", qdierrors.NewInvalidPathError(relPath, rs.resolvedPath))
		}
		return "", false
	}

	// Re-key by the canonical root-relative form so "./a.md" and "a.md"
	// share an entry
	rel, err := filepath.Rel(rs.resolvedPath, absPath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(absPath)
	if err != nil {
		// File disappeared since last check: drop every trace of it
		if e.removeLocked(rs, rel) {
			debug.LogCache("dropped vanished file %s\n", rel)
		}
		return "", false
	}

	if entry, cached := rs.cache.Get(rel); cached {
		if !info.ModTime().After(entry.ModTime) {
			return entry.Content, true
		}
		return e.reloadEntry(rs, rel, absPath, info)
	}

	return e.loadEntry(rs, rel, absPath, info)
}

// loadEntry loads a previously uncached file, enforcing the byte limit and
// the binary sniff, then inserts it and indexes its tokens.
func (e *Engine) loadEntry(rs *rootState, rel, absPath string, info os.FileInfo) (string, bool) {
	if info.Size() > rs.cache.MaxFileBytes() {
		debug.Warnf("skipping %s: %v\n", rel,
			qdierrors.NewFileTooLargeError(rel, info.Size(), rs.cache.MaxFileBytes()))
		return "", false
	}

	if isText, err := e.checker.CheckFile(absPath); err != nil {
		debug.Warnf("skipping %s: %v\n", rel, err)
		return "", false
	} else if !isText {
		debug.LogCache("skipping binary file %s\n", rel)
		return "", false
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		debug.Warnf("skipping %s: %v\n", rel, err)
		return "", false
	}

	content := string(data)
	evicted := rs.cache.Put(&store.Entry{
		Path:    rel,
		Content: content,
		ModTime: info.ModTime(),
		Hash:    xxhash.Sum64(data),
		Size:    info.Size(),
	})
	for _, victim := range evicted {
		rs.index.RemoveFile(victim)
		debug.LogCache("evicted %s\n", victim)
	}

	rs.index.UpdateForFile(rel, content)
	return content, true
}

// reloadEntry replaces a cached entry whose on-disk mtime moved. When the
// content hash is unchanged only the entry metadata refreshes; the index
// diff runs only for real content changes.
func (e *Engine) reloadEntry(rs *rootState, rel, absPath string, info os.FileInfo) (string, bool) {
	if info.Size() > rs.cache.MaxFileBytes() {
		// The file grew past the limit since it was cached
		e.removeLocked(rs, rel)
		debug.Warnf("dropping %s: %v\n", rel,
			qdierrors.NewFileTooLargeError(rel, info.Size(), rs.cache.MaxFileBytes()))
		return "", false
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		e.removeLocked(rs, rel)
		debug.Warnf("dropping %s: %v\n", rel, err)
		return "", false
	}

	content := string(data)
	hash := xxhash.Sum64(data)

	prev, _ := rs.cache.Peek(rel)
	evicted := rs.cache.Put(&store.Entry{
		Path:    rel,
		Content: content,
		ModTime: info.ModTime(),
		Hash:    hash,
		Size:    info.Size(),
	})
	for _, victim := range evicted {
		rs.index.RemoveFile(victim)
	}

	if prev == nil || prev.Hash != hash {
		rs.index.UpdateForFile(rel, content)
	}
	return content, true
}

// removeLocked drops the cache entry and all of its index postings.
// Caller holds e.mu.
func (e *Engine) removeLocked(rs *rootState, rel string) bool {
	removed := rs.cache.Remove(rel)
	rs.index.RemoveFile(rel)
	return removed
}

// dropVanished handles a cached file that was deleted on disk. The guard
// cannot resolve a path that no longer exists, so containment is checked
// lexically here instead: a cached key whose cleaned join stays inside the
// root but no longer stats loses its entry and its index postings. Reports
// whether a vanished entry was removed; a plain traversal attempt returns
// false. Caller holds e.mu.
func (e *Engine) dropVanished(rs *rootState, relPath string) bool {
	candidate := relPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(rs.resolvedPath, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(rs.resolvedPath, candidate)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return false
	}
	rel = filepath.ToSlash(rel)

	if _, cached := rs.cache.Peek(rel); !cached {
		return false
	}
	if _, err := os.Stat(candidate); err == nil {
		return false
	}

	e.removeLocked(rs, rel)
	debug.LogCache("dropped vanished file %s\n", rel)
	return true
}

// GetFileContent is the read-through single-file access exposed to the
// tool-dispatch layer for "fetch full document" operations.
func (e *Engine) GetFileContent(ctx context.Context, kind config.RootKind, relPath string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureInitializedLocked(ctx); err != nil {
		return "", err
	}

	rs, err := e.rootFor(kind)
	if err != nil {
		return "", err
	}

	content, ok := e.getContent(rs, relPath)
	if !ok {
		return "", qdierrors.NewFileError("read", relPath, os.ErrNotExist)
	}
	return content, nil
}

// Invalidate drops the cached entry for relPath so the next access reloads
// it from disk. Used by the file watcher on write events.
func (e *Engine) Invalidate(kind config.RootKind, relPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rs, err := e.rootFor(kind)
	if err != nil {
		return
	}
	if e.removeLocked(rs, filepath.ToSlash(relPath)) {
		debug.LogCache("invalidated %s/%s\n", kind, relPath)
	}
}

// RootStats describes one root's live state for status reporting.
type RootStats struct {
	Kind       config.RootKind `json:"kind"`
	Path       string          `json:"path"`
	Usable     bool            `json:"usable"`
	Files      int             `json:"files"`
	Tokens     int             `json:"tokens"`
	CacheHits  int64           `json:"cache_hits"`
	CacheMiss  int64           `json:"cache_misses"`
	Evictions  int64           `json:"evictions"`
	MaxEntries int             `json:"max_entries"`
}

// Stats returns per-root counters in config order.
func (e *Engine) Stats() []RootStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]RootStats, 0, len(e.cfg.Roots))
	for _, r := range e.cfg.Roots {
		rs := e.roots[r.Kind]
		cs := rs.cache.Stats()
		out = append(out, RootStats{
			Kind:       r.Kind,
			Path:       r.Path,
			Usable:     rs.usable(),
			Files:      cs.Entries,
			Tokens:     rs.index.TokenCount(),
			CacheHits:  cs.Hits,
			CacheMiss:  cs.Misses,
			Evictions:  cs.Evictions,
			MaxEntries: rs.cache.MaxEntries(),
		})
	}
	return out
}

// Close stops the watcher if one is running. The in-memory state needs no
// teardown; nothing is persisted.
func (e *Engine) Close() error {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w != nil {
		return w.Stop()
	}
	return nil
}
