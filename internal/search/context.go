package search

import (
	"strings"

	"github.com/quickindex/qdi/internal/index"
)

// Context snippet bounds: the matching line, up to two lines before and
// three after, capped at maxSnippetLines total.
const (
	snippetLinesBefore = 2
	snippetLinesAfter  = 3
	maxSnippetLines    = 5
)

// ContextExtractor produces a short window of lines around the first match
// in a document.
type ContextExtractor struct{}

// NewContextExtractor creates a context extractor
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{}
}

// FindContext locates the first line matching q and returns the surrounding
// window. No matching line yields an empty snippet; the caller still reports
// the path as a hit based on the boolean match.
func (ce *ContextExtractor) FindContext(content string, q Query) []string {
	lines := strings.Split(content, "\n")

	matchLine := -1
	for i, line := range lines {
		if ce.lineMatches(line, q) {
			matchLine = i
			break
		}
	}
	if matchLine < 0 {
		return nil
	}

	start := matchLine - snippetLinesBefore
	if start < 0 {
		start = 0
	}
	end := matchLine + snippetLinesAfter + 1
	if end > len(lines) {
		end = len(lines)
	}
	window := lines[start:end]
	if len(window) > maxSnippetLines {
		window = window[:maxSnippetLines]
	}

	// Copy out of the split backing array
	snippet := make([]string, len(window))
	copy(snippet, window)
	return snippet
}

// lineMatches applies the per-line match rule: any token for AND/OR, the
// literal phrase for PHRASE.
func (ce *ContextExtractor) lineMatches(line string, q Query) bool {
	if q.Mode == ModePhrase {
		return MatchesPhrase(line, q.Phrase)
	}
	set := index.TokenSet(line)
	for _, tok := range q.Tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}
