// Package keyword implements the relevance rule shared by every evidence
// channel: a text is relevant when it contains any question token.
package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is exclusive: tokens must be longer than this
const minTokenLength = 2

// Tokens splits question into lowercase words longer than two characters.
// Punctuation is trimmed from both ends of each word, so "productivity?"
// yields "productivity" while "e-mail" stays intact. Duplicates are removed,
// first occurrence order is kept.
func Tokens(question string) []string {
	fields := strings.Fields(strings.ToLower(question))

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, unicode.IsPunct)
		if utf8.RuneCountInString(f) <= minTokenLength {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Match reports whether any token is a substring of the lowercased text
func Match(tokens []string, text string) bool {
	lower := strings.ToLower(text)
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// Filter is a compiled question
type Filter struct {
	tokens []string
}

// NewFilter compiles question into a Filter
func NewFilter(question string) *Filter {
	return &Filter{tokens: Tokens(question)}
}

// Match reports whether title and content together contain any token
func (f *Filter) Match(title, content string) bool {
	return Match(f.tokens, title+" "+content)
}

// Empty reports whether the question has no qualifying tokens. An empty
// filter matches nothing.
func (f *Filter) Empty() bool {
	return len(f.tokens) == 0
}
