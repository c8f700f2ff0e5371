package publisher

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugMaxLen = 60

var nonAlnumRuns = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// asciiFold decomposes accented characters and drops the combining marks,
// so "Pâtes sautées" folds to "Pates sautees" before slugging.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify produces an ASCII, lowercase, separator-normalized form of a
// title for use in file names. Empty results fall back to "recette".
func Slugify(title string) string {
	folded, _, err := transform.String(asciiFold, title)
	if err != nil {
		folded = title
	}
	s := nonAlnumRuns.ReplaceAllString(folded, "-")
	s = strings.ToLower(strings.Trim(s, "-"))
	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}
	if s == "" {
		return "recette"
	}
	return s
}

// ArticleSlug is the date-prefixed stem shared by the article file and
// its hero image.
func ArticleSlug(title string, now time.Time) string {
	return now.UTC().Format("2006-01-02") + "-" + Slugify(title)
}
