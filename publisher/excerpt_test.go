package publisher

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerptShortTextPassesThrough(t *testing.T) {
	assert.Equal(t, "Une soupe rapide.", Excerpt("Une soupe rapide."))
}

func TestExcerptStripsMarkupAndCollapsesWhitespace(t *testing.T) {
	in := `<p class="lead">Une   recette
	<b>simple</b> et savoureuse.</p>`
	assert.Equal(t, "Une recette simple et savoureuse.", Excerpt(in))
}

func TestExcerptWordBoundaryTruncation(t *testing.T) {
	source := strings.TrimSpace(strings.Repeat("mot ", 75)) // 299 chars

	out := Excerpt(source)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), excerptMaxLen)
	assert.False(t, strings.HasSuffix(out, " "))
	assert.True(t, strings.HasPrefix(source, out), "excerpt is a prefix of the collapsed source")
	// ends on a whole word
	assert.True(t, strings.HasSuffix(out, "mot"))
}

func TestExcerptHardCutWithoutBoundary(t *testing.T) {
	source := strings.Repeat("a", 300)
	out := Excerpt(source)
	assert.Equal(t, excerptMaxLen, utf8.RuneCountInString(out))
}

func TestExcerptBoundaryBelowMinimumFallsBack(t *testing.T) {
	// one space very early, then an unbroken run: boundary is under the
	// minimum so the cut is hard at the maximum
	source := "ab " + strings.Repeat("c", 300)
	out := Excerpt(source)
	assert.Equal(t, excerptMaxLen, utf8.RuneCountInString(out))
}
