package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_StemEquality(t *testing.T) {
	sg := NewSuggester()

	// "running" stems to "run"; "runs" shares the stem
	suggestions := sg.Suggest([]string{"running"}, []string{"runs", "walked"})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "runs", suggestions[0])
}

func TestSuggest_NearMiss(t *testing.T) {
	sg := NewSuggester()

	suggestions := sg.Suggest([]string{"confg"}, []string{"config", "database"})
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "config", suggestions[0])
	assert.NotContains(t, suggestions, "database")
}

func TestSuggest_SkipsExactAndShort(t *testing.T) {
	sg := NewSuggester()

	assert.Empty(t, sg.Suggest([]string{"config"}, []string{"config"}),
		"a token the user already typed is never suggested")
	assert.Empty(t, sg.Suggest([]string{"ab"}, []string{"ab", "ac"}),
		"short tokens score as noise and are skipped")
}

func TestSuggest_CapsAtThree(t *testing.T) {
	sg := NewSuggester()

	vocab := []string{"indexing", "indexes", "indexed", "indexer", "indexation"}
	suggestions := sg.Suggest([]string{"index"}, vocab)
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestSuggest_EmptyInputs(t *testing.T) {
	sg := NewSuggester()

	assert.Nil(t, sg.Suggest(nil, []string{"config"}))
	assert.Nil(t, sg.Suggest([]string{"config"}, nil))
}
