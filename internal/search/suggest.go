package search

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// Suggester offers "did you mean" terms for AND/OR queries that return
// nothing. Candidates come from the live index vocabulary, so every
// suggestion is a token that actually has postings. Suggestions never feed
// back into the result set.

const (
	// fuzzyThreshold is the minimum Jaro-Winkler similarity for a
	// vocabulary token to be suggested
	fuzzyThreshold = 0.8

	// maxSuggestions caps the suggestion list per query
	maxSuggestions = 3

	// minSuggestLength skips suggesting replacements for very short tokens,
	// where similarity scores are mostly noise
	minSuggestLength = 3
)

type Suggester struct {
	threshold float64
	limit     int
}

// NewSuggester creates a suggester with the default threshold and limit
func NewSuggester() *Suggester {
	return &Suggester{threshold: fuzzyThreshold, limit: maxSuggestions}
}

type scoredSuggestion struct {
	token string
	score float64
}

// Suggest returns up to 3 vocabulary tokens near the query tokens, best
// first. Stem-equal tokens (porter2) count as exact-strength matches;
// everything else ranks by Jaro-Winkler similarity above the threshold.
func (sg *Suggester) Suggest(queryTokens []string, vocabulary []string) []string {
	if len(queryTokens) == 0 || len(vocabulary) == 0 {
		return nil
	}

	queryStems := make(map[string]struct{}, len(queryTokens))
	querySet := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		querySet[tok] = struct{}{}
		if len(tok) >= minSuggestLength {
			queryStems[porter2.Stem(tok)] = struct{}{}
		}
	}

	var scored []scoredSuggestion
	for _, cand := range vocabulary {
		if _, exact := querySet[cand]; exact {
			continue
		}
		if len(cand) < minSuggestLength {
			continue
		}

		if _, stemHit := queryStems[porter2.Stem(cand)]; stemHit {
			scored = append(scored, scoredSuggestion{token: cand, score: 1.0})
			continue
		}

		best := 0.0
		for _, tok := range queryTokens {
			if len(tok) < minSuggestLength {
				continue
			}
			sim, err := edlib.StringsSimilarity(tok, cand, edlib.JaroWinkler)
			if err != nil {
				continue
			}
			if float64(sim) > best {
				best = float64(sim)
			}
		}
		if best >= sg.threshold {
			scored = append(scored, scoredSuggestion{token: cand, score: best})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].token < scored[j].token
	})

	limit := sg.limit
	if len(scored) < limit {
		limit = len(scored)
	}
	out := make([]string, 0, limit)
	for _, s := range scored[:limit] {
		out = append(out, s.token)
	}
	return out
}
