package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		mode  Mode
		ok    bool
	}{
		{"and", ModeAnd, true},
		{"AND", ModeAnd, true},
		{"or", ModeOr, true},
		{"phrase", ModePhrase, true},
		{" Phrase ", ModePhrase, true},
		{"", ModeAnd, false},
		{"bogus", ModeAnd, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			mode, ok := ParseMode(tc.input)
			assert.Equal(t, tc.mode, mode)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "AND", ModeAnd.String())
	assert.Equal(t, "OR", ModeOr.String())
	assert.Equal(t, "PHRASE", ModePhrase.String())
}

func TestTokenize_ModeResolution(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		requested Mode
		explicit  bool
		wantMode  Mode
	}{
		{"default is AND", "hello world", ModeAnd, false, ModeAnd},
		{"quotes force PHRASE", `"hello world"`, ModeAnd, false, ModePhrase},
		{"explicit mode beats quotes", `"hello world"`, ModeOr, true, ModeOr},
		{"explicit PHRASE without quotes", "hello world", ModePhrase, true, ModePhrase},
		{"requested OR", "hello world", ModeOr, false, ModeOr},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Tokenize(tc.raw, tc.requested, tc.explicit)
			assert.Equal(t, tc.wantMode, q.Mode)
		})
	}
}

func TestTokenize_TokensAndPhrase(t *testing.T) {
	q := Tokenize("Hello, World hello", ModeAnd, false)
	assert.Equal(t, []string{"hello", "world"}, q.Tokens)
	assert.False(t, q.Empty())

	q = Tokenize(`"Hello World"`, ModeAnd, false)
	assert.Equal(t, "Hello World", q.Phrase, "quotes are stripped, case kept")

	// Explicit OR over a quoted query keeps the quotes out of the tokens
	q = Tokenize(`"hello world"`, ModeOr, true)
	assert.Equal(t, []string{"hello", "world"}, q.Tokens)
}

func TestTokenize_Whitespace(t *testing.T) {
	q := Tokenize("   \t  ", ModeOr, true)
	assert.Equal(t, ModeAnd, q.Mode)
	assert.True(t, q.Empty())

	q = Tokenize(`""`, ModeAnd, false)
	assert.Equal(t, ModePhrase, q.Mode)
	assert.True(t, q.Empty(), "empty phrase matches nothing")
}
