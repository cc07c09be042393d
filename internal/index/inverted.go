package index

// Minimal inverted index mapping lowercased word tokens to the set of
// root-relative paths containing them. Maintenance is incremental: a changed
// file contributes only its token-set delta, never a full rebuild.
//
// The index carries no lock of its own. The owning engine serializes all
// access behind a single coarse mutex, so a remove-then-add sequence for one
// file is always observed whole.

// InvertedIndex stores token -> set of paths, plus a per-path record of the
// tokens currently attributed to that path (for fast removal and diffing).
type InvertedIndex struct {
	postings   map[string]map[string]struct{} // token -> path set
	fileTokens map[string]map[string]struct{} // path -> token set
}

// NewInvertedIndex creates an empty index
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings:   make(map[string]map[string]struct{}),
		fileTokens: make(map[string]map[string]struct{}),
	}
}

// UpdateForFile re-attributes path to the tokens of content. Only the delta
// against the previously recorded token set touches the postings: tokens the
// file lost drop the path (and the posting entry itself once empty), tokens
// the file gained add it.
func (ix *InvertedIndex) UpdateForFile(path, content string) {
	newTokens := TokenSet(content)
	oldTokens := ix.fileTokens[path]

	for tok := range oldTokens {
		if _, still := newTokens[tok]; still {
			continue
		}
		if set, ok := ix.postings[tok]; ok {
			delete(set, path)
			if len(set) == 0 {
				delete(ix.postings, tok)
			}
		}
	}

	for tok := range newTokens {
		if _, had := oldTokens[tok]; had {
			continue
		}
		set, ok := ix.postings[tok]
		if !ok {
			set = make(map[string]struct{})
			ix.postings[tok] = set
		}
		set[path] = struct{}{}
	}

	if len(newTokens) == 0 {
		delete(ix.fileTokens, path)
		return
	}
	ix.fileTokens[path] = newTokens
}

// RemoveFile drops all postings for path.
func (ix *InvertedIndex) RemoveFile(path string) {
	for tok := range ix.fileTokens[path] {
		if set, ok := ix.postings[tok]; ok {
			delete(set, path)
			if len(set) == 0 {
				delete(ix.postings, tok)
			}
		}
	}
	delete(ix.fileTokens, path)
}

// CandidatesAll returns paths containing every token (AND semantics).
// An empty token list yields no candidates.
func (ix *InvertedIndex) CandidatesAll(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	// Start from the rarest posting set to keep the intersection small.
	smallest := -1
	for i, tok := range tokens {
		set, ok := ix.postings[tok]
		if !ok {
			return nil
		}
		if smallest < 0 || len(set) < len(ix.postings[tokens[smallest]]) {
			smallest = i
		}
	}

	var out []string
	for path := range ix.postings[tokens[smallest]] {
		inAll := true
		for _, tok := range tokens {
			if _, ok := ix.postings[tok][path]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, path)
		}
	}
	return out
}

// CandidatesAny returns paths containing at least one token (OR semantics).
func (ix *InvertedIndex) CandidatesAny(tokens []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range tokens {
		for path := range ix.postings[tok] {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	return out
}

// Contains reports whether token has any postings.
func (ix *InvertedIndex) Contains(token string) bool {
	_, ok := ix.postings[token]
	return ok
}

// PostingCount returns the number of paths attributed to token.
func (ix *InvertedIndex) PostingCount(token string) int {
	return len(ix.postings[token])
}

// TokensForFile returns the token set currently recorded for path.
func (ix *InvertedIndex) TokensForFile(path string) map[string]struct{} {
	return ix.fileTokens[path]
}

// Vocabulary returns every indexed token. Used by the suggester to find
// near-miss terms for zero-result queries.
func (ix *InvertedIndex) Vocabulary() []string {
	out := make([]string, 0, len(ix.postings))
	for tok := range ix.postings {
		out = append(out, tok)
	}
	return out
}

// TokenCount returns the number of distinct indexed tokens.
func (ix *InvertedIndex) TokenCount() int {
	return len(ix.postings)
}

// FileCount returns the number of paths with a recorded token set.
func (ix *InvertedIndex) FileCount() int {
	return len(ix.fileTokens)
}

// Empty reports whether the index holds no postings.
func (ix *InvertedIndex) Empty() bool {
	return len(ix.postings) == 0
}

// Clear drops all postings and per-file records.
func (ix *InvertedIndex) Clear() {
	ix.postings = make(map[string]map[string]struct{})
	ix.fileTokens = make(map[string]map[string]struct{})
}
