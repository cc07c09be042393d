package index

import "strings"

// Tokens are maximal runs of [A-Za-z0-9_], lowercased. The scan is
// ASCII-focused: any other byte, multi-byte sequences included, acts as a
// separator.

// isTokenChar reports whether b can appear inside a token
func isTokenChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

// TokenSet extracts the set of distinct lowercase tokens from content.
func TokenSet(content string) map[string]struct{} {
	tokens := make(map[string]struct{})
	start := -1
	for i := 0; i < len(content); i++ {
		if isTokenChar(content[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens[strings.ToLower(content[start:i])] = struct{}{}
			start = -1
		}
	}
	if start >= 0 {
		tokens[strings.ToLower(content[start:])] = struct{}{}
	}
	return tokens
}

// TokenList extracts tokens in order of first appearance, preserving query
// word order for callers that need it.
func TokenList(content string) []string {
	var list []string
	seen := make(map[string]struct{})
	start := -1
	flush := func(end int) {
		tok := strings.ToLower(content[start:end])
		if _, dup := seen[tok]; !dup {
			seen[tok] = struct{}{}
			list = append(list, tok)
		}
	}
	for i := 0; i < len(content); i++ {
		if isTokenChar(content[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
			start = -1
		}
	}
	if start >= 0 {
		flush(len(content))
	}
	return list
}
