package publisher

import (
	"regexp"
	"strings"
)

// Excerpt length bounds, in characters. Truncation prefers the last word
// boundary at or before the maximum; a hard cut only happens when no
// boundary exists above the minimum.
const (
	excerptMinLen = 120
	excerptMaxLen = 160
)

var htmlTags = regexp.MustCompile(`<[^>]+>`)

// Excerpt builds a card excerpt from source text: markup is stripped,
// whitespace runs collapse to single spaces, then the result is truncated
// at a word boundary.
func Excerpt(source string) string {
	text := htmlTags.ReplaceAllString(source, " ")
	text = strings.Join(strings.Fields(text), " ")

	r := []rune(text)
	if len(r) <= excerptMaxLen {
		return text
	}

	cut := -1
	for i := excerptMaxLen - 1; i >= 0; i-- {
		if r[i] == ' ' {
			cut = i
			break
		}
	}
	if cut < excerptMinLen {
		cut = excerptMaxLen
	}
	return strings.TrimSpace(string(r[:cut]))
}
