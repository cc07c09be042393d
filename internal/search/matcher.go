package search

import (
	"strings"

	"github.com/quickindex/qdi/internal/index"
)

// Matches is the single mode matcher: one switch over the mode tag instead
// of injected matcher callables, so every branch stays independently
// testable. It is the authority all three fallback tiers re-verify against,
// which defends index candidates against staleness between index build and
// query time.
func Matches(content string, q Query) bool {
	switch q.Mode {
	case ModePhrase:
		return MatchesPhrase(content, q.Phrase)
	case ModeOr:
		return MatchesAny(content, q.Tokens)
	default:
		return MatchesAll(content, q.Tokens)
	}
}

// MatchesAll reports whether content contains every token as a word token.
// An empty token list matches nothing.
func MatchesAll(content string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	set := index.TokenSet(content)
	for _, tok := range tokens {
		if _, ok := set[tok]; !ok {
			return false
		}
	}
	return true
}

// MatchesAny reports whether content contains at least one token as a word
// token.
func MatchesAny(content string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	set := index.TokenSet(content)
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

// MatchesPhrase reports literal substring containment of phrase, case
// insensitive and whitespace-exact.
func MatchesPhrase(content, phrase string) bool {
	if strings.TrimSpace(phrase) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(phrase))
}
