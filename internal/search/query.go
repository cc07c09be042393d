package search

import (
	"strings"

	"github.com/quickindex/qdi/internal/index"
)

// Mode selects how query tokens combine into a match decision.
type Mode int

const (
	ModeAnd Mode = iota
	ModeOr
	ModePhrase
)

// String returns the wire name of the mode
func (m Mode) String() string {
	switch m {
	case ModeOr:
		return "OR"
	case ModePhrase:
		return "PHRASE"
	default:
		return "AND"
	}
}

// ParseMode resolves a mode name, case-insensitively. Unknown names report
// ok=false and fall back to AND.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return ModeAnd, s != ""
	case "OR":
		return ModeOr, true
	case "PHRASE":
		return ModePhrase, true
	default:
		return ModeAnd, false
	}
}

// Query is the ephemeral, normalized form of a raw search string: a resolved
// mode plus either an ordered token list or a literal phrase.
type Query struct {
	Raw    string
	Mode   Mode
	Tokens []string
	Phrase string
}

// Empty reports whether the query carries nothing to match.
func (q Query) Empty() bool {
	if q.Mode == ModePhrase {
		return strings.TrimSpace(q.Phrase) == ""
	}
	return len(q.Tokens) == 0
}

// Tokenize normalizes raw into a Query.
//
// Resolution order: an explicitly requested mode always wins; otherwise a
// query wrapped in matching double quotes forces PHRASE; otherwise the
// requested mode (default AND) applies and the query splits into lowercase
// word tokens. An all-whitespace query yields AND with no tokens - callers
// treat that as "no results", except the orchestrator boundary which rejects
// it outright.
func Tokenize(raw string, requested Mode, explicit bool) Query {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return Query{Raw: raw, Mode: ModeAnd}
	}

	quoted := len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"'

	mode := requested
	if !explicit && quoted {
		mode = ModePhrase
	}

	if mode == ModePhrase {
		phrase := trimmed
		if quoted {
			phrase = trimmed[1 : len(trimmed)-1]
		}
		return Query{Raw: raw, Mode: ModePhrase, Phrase: phrase}
	}

	return Query{Raw: raw, Mode: mode, Tokens: index.TokenList(trimmed)}
}
