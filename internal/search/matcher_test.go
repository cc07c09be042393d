package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAll(t *testing.T) {
	content := "Hello world\nsecond line"

	assert.True(t, MatchesAll(content, []string{"hello", "world"}))
	assert.True(t, MatchesAll(content, []string{"second"}))
	assert.False(t, MatchesAll(content, []string{"hello", "missing"}))
	assert.False(t, MatchesAll(content, nil), "empty token list matches nothing")
}

func TestMatchesAny(t *testing.T) {
	content := "Hello world"

	assert.True(t, MatchesAny(content, []string{"missing", "world"}))
	assert.False(t, MatchesAny(content, []string{"missing", "absent"}))
	assert.False(t, MatchesAny(content, nil))
}

func TestMatchesAll_WholeWordsOnly(t *testing.T) {
	// "cat" must not match inside "catalog"
	assert.False(t, MatchesAll("the catalog is here", []string{"cat"}))
	assert.True(t, MatchesAll("the cat sat", []string{"cat"}))
}

func TestMatchesPhrase(t *testing.T) {
	tests := []struct {
		name    string
		content string
		phrase  string
		want    bool
	}{
		{"case insensitive", "Say Hello World now", "hello world", true},
		{"substring is fine", "concatenation", "caten", true},
		{"whitespace exact", "hello  world", "hello world", false},
		{"empty phrase", "anything", "", false},
		{"blank phrase", "anything", "   ", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesPhrase(tc.content, tc.phrase))
		})
	}
}

func TestMatches_DispatchesOnMode(t *testing.T) {
	content := "Hello world"

	and := Tokenize("hello world", ModeAnd, false)
	or := Tokenize("hello missing", ModeOr, true)
	phrase := Tokenize(`"hello world"`, ModeAnd, false)

	assert.True(t, Matches(content, and))
	assert.True(t, Matches(content, or))
	assert.True(t, Matches(content, phrase))

	assert.False(t, Matches("Hello there", and))
	assert.False(t, Matches("Hello there", phrase))
}
