package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContext_Window(t *testing.T) {
	content := strings.Join([]string{
		"line 0",
		"line 1",
		"line 2",
		"needle here",
		"line 4",
		"line 5",
		"line 6",
		"line 7",
	}, "\n")

	q := Tokenize("needle", ModeAnd, false)
	window := NewContextExtractor().FindContext(content, q)

	// Two lines before plus the match plus as many after as the cap allows
	require.Len(t, window, 5)
	assert.Equal(t, "line 1", window[0])
	assert.Equal(t, "needle here", window[2])
	assert.Equal(t, "line 4", window[3])
}

func TestFindContext_MatchAtStart(t *testing.T) {
	content := "needle first\nline 1\nline 2\nline 3\nline 4"
	q := Tokenize("needle", ModeAnd, false)

	window := NewContextExtractor().FindContext(content, q)
	require.NotEmpty(t, window)
	assert.Equal(t, "needle first", window[0])
	assert.LessOrEqual(t, len(window), 5)
}

func TestFindContext_MatchAtEnd(t *testing.T) {
	content := "line 0\nline 1\nneedle last"
	q := Tokenize("needle", ModeAnd, false)

	window := NewContextExtractor().FindContext(content, q)
	assert.Equal(t, []string{"line 0", "line 1", "needle last"}, window)
}

func TestFindContext_FirstMatchWins(t *testing.T) {
	content := "a\nneedle one\nb\nc\nd\ne\nf\nneedle two"
	q := Tokenize("needle", ModeAnd, false)

	window := NewContextExtractor().FindContext(content, q)
	require.NotEmpty(t, window)
	assert.Contains(t, window, "needle one")
	assert.NotContains(t, window, "needle two")
}

func TestFindContext_NoLineMatch(t *testing.T) {
	q := Tokenize("zeta", ModeAnd, false)
	window := NewContextExtractor().FindContext("alpha only\nomega only", q)
	assert.Nil(t, window)
}

func TestFindContext_AnyTokenLine(t *testing.T) {
	// For AND/OR the per-line rule is any-token, so the first line holding
	// either token anchors the window.
	q := Tokenize("alpha omega", ModeAnd, false)
	window := NewContextExtractor().FindContext("nothing\nalpha only\nmore", q)
	require.NotEmpty(t, window)
	assert.Contains(t, window, "alpha only")
}

func TestFindContext_Phrase(t *testing.T) {
	q := Tokenize(`"hello world"`, ModeAnd, false)

	window := NewContextExtractor().FindContext("x\nsay Hello World today\ny", q)
	require.NotEmpty(t, window)
	assert.Contains(t, window, "say Hello World today")

	assert.Nil(t, NewContextExtractor().FindContext("hello\nworld", q))
}
