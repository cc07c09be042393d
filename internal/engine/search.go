package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/debug"
	qdierrors "github.com/quickindex/qdi/internal/errors"
	"github.com/quickindex/qdi/internal/search"
)

// Tier identifies which fallback strategy answered a search.
type Tier int

const (
	TierIndex     Tier = 1 // posting-set lookup (or cache scan for PHRASE)
	TierCacheScan Tier = 2 // linear scan over cached content
	TierGrep      Tier = 3 // on-disk walk, self-heals an empty cache
)

// String returns a short tier label
func (t Tier) String() string {
	switch t {
	case TierIndex:
		return "index"
	case TierCacheScan:
		return "cache-scan"
	case TierGrep:
		return "grep"
	default:
		return "unknown"
	}
}

// Result is one search hit: the root-relative path, a display title, and a
// short context snippet. Ephemeral; produced per call.
type Result struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Context []string `json:"context"`
}

// Report is the full answer to one search call.
type Report struct {
	Results     []Result `json:"results"`
	Tier        Tier     `json:"tier"`
	Mode        string   `json:"mode"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Search answers a keyword query against one root. The fallback tier is
// picked fresh on every call from availability alone: a non-empty index over
// a non-empty cache serves Tier 1, a populated cache without an index serves
// Tier 2, and otherwise Tier 3 greps the root on disk. Errors inside a tier
// are never caught-and-fallen-through; only unavailability selects a lower
// tier, so a bug in one tier cannot silently mask itself.
func (e *Engine) Search(ctx context.Context, kind config.RootKind, rawQuery, modeName string, modeExplicit bool, limit int) (*Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(rawQuery) == "" {
		return nil, qdierrors.NewEmptyQueryError(rawQuery)
	}

	if err := e.ensureInitializedLocked(ctx); err != nil {
		return nil, err
	}

	rs, err := e.rootFor(kind)
	if err != nil {
		return nil, err
	}
	if !rs.usable() {
		return nil, qdierrors.NewConfigError("root", string(kind),
			qdierrors.NewFileError("open", rs.root.Path, fs.ErrNotExist))
	}

	if limit <= 0 {
		limit = e.cfg.Search.DefaultLimit
	}

	requested, known := search.ParseMode(modeName)
	if modeExplicit && !known {
		// A typo like "--mode xyz" must not silently fall back to AND
		return nil, qdierrors.NewConfigError("mode", modeName, fmt.Errorf("unknown search mode"))
	}
	q := search.Tokenize(rawQuery, requested, modeExplicit)

	report := &Report{Mode: q.Mode.String()}
	if q.Empty() {
		// Tokens dissolved entirely (e.g. punctuation-only query):
		// no results, not an error
		report.Tier = TierIndex
		return report, nil
	}

	switch {
	case e.initialized && !rs.index.Empty() && !rs.cache.Empty():
		report.Tier = TierIndex
		report.Results = e.searchIndex(rs, q, limit)
	case !rs.cache.Empty():
		report.Tier = TierCacheScan
		report.Results = e.searchCacheScan(rs, q, limit)
	default:
		report.Tier = TierGrep
		report.Results = e.searchGrep(ctx, rs, q, limit)
	}

	debug.LogSearch("query %q on %s answered by tier %s with %d results\n",
		rawQuery, kind, report.Tier, len(report.Results))

	if len(report.Results) == 0 && q.Mode != search.ModePhrase && e.cfg.Search.EnableSuggestions {
		report.Suggestions = e.suggester.Suggest(q.Tokens, rs.index.Vocabulary())
	}

	return report, nil
}

// searchIndex is Tier 1. AND/OR candidates come from posting-set algebra;
// PHRASE has no n-gram index and scans the in-memory cache instead, which is
// still Tier 1 because no disk I/O happens on the candidate side. Every
// candidate is re-fetched through the cache and re-verified with the mode
// matcher before it is accepted.
func (e *Engine) searchIndex(rs *rootState, q search.Query, limit int) []Result {
	var candidates []string
	switch q.Mode {
	case search.ModeAnd:
		candidates = rs.index.CandidatesAll(q.Tokens)
	case search.ModeOr:
		candidates = rs.index.CandidatesAny(q.Tokens)
	case search.ModePhrase:
		for _, path := range rs.cache.Paths() {
			if entry, ok := rs.cache.Peek(path); ok && search.MatchesPhrase(entry.Content, q.Phrase) {
				candidates = append(candidates, path)
			}
		}
	}
	sort.Strings(candidates)

	var results []Result
	for _, path := range candidates {
		if len(results) >= limit {
			break
		}
		content, ok := e.getContent(rs, path)
		if !ok || !search.Matches(content, q) {
			continue
		}
		results = append(results, e.buildResult(path, content, q))
	}
	return results
}

// searchCacheScan is Tier 2: iterate every cached entry and apply the mode
// matcher directly. The index is not consulted at all.
func (e *Engine) searchCacheScan(rs *rootState, q search.Query, limit int) []Result {
	paths := rs.cache.Paths()
	sort.Strings(paths)

	var results []Result
	for _, path := range paths {
		if len(results) >= limit {
			break
		}
		entry, ok := rs.cache.Peek(path)
		if !ok || !search.Matches(entry.Content, q) {
			continue
		}
		results = append(results, e.buildResult(path, entry.Content, q))
	}
	return results
}

// searchGrep is Tier 3: walk the root on disk and load each matching file
// through the cache, which populates the cache and index as a side effect so
// later queries can use the faster tiers. The only tier with disk latency on
// the hot path.
func (e *Engine) searchGrep(ctx context.Context, rs *rootState, q search.Query, limit int) []Result {
	var results []Result

	_ = filepath.WalkDir(rs.resolvedPath, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			return nil
		}

		rel, relErr := filepath.Rel(rs.resolvedPath, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != rs.resolvedPath && e.shouldExcludeDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if e.shouldExclude(rel) {
			return nil
		}
		if matched, err := doublestar.Match(rs.root.Pattern, rel); err != nil || !matched {
			return nil
		}

		content, ok := e.getContent(rs, rel)
		if !ok || !search.Matches(content, q) {
			return nil
		}

		results = append(results, e.buildResult(rel, content, q))
		if len(results) >= limit {
			return filepath.SkipAll
		}
		return nil
	})

	return results
}

// buildResult assembles one hit with its context snippet.
func (e *Engine) buildResult(path, content string, q search.Query) Result {
	return Result{
		Path:    path,
		Title:   filepath.Base(path),
		Context: e.extractor.FindContext(content, q),
	}
}
