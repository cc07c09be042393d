package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSet(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"simple words", "Hello world", []string{"hello", "world"}},
		{"case folded and deduped", "Go go GO", []string{"go"}},
		{"punctuation separates", "foo.bar,baz;qux", []string{"foo", "bar", "baz", "qux"}},
		{"underscore and digits kept", "snake_case v2", []string{"snake_case", "v2"}},
		{"trailing token flushed", "end token", []string{"end", "token"}},
		{"empty input", "", nil},
		{"only separators", " \t\n!?", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set := TokenSet(tc.content)
			assert.Len(t, set, len(tc.expected))
			for _, tok := range tc.expected {
				assert.Contains(t, set, tok)
			}
		})
	}
}

func TestTokenList_PreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, TokenList("beta alpha beta gamma"))
	assert.Nil(t, TokenList(""))
	assert.Equal(t, []string{"tail"}, TokenList("...tail"))
}
