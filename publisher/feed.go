package publisher

import (
	"html"
	"path"
	"strings"
	"time"
)

// Markers delimits the feed region inside the index document. Legacy is
// an optional single-token variant from older layouts; Anchor is the
// opening tag prefix of the listing container used for bootstrap.
type Markers struct {
	Start  string
	End    string
	Legacy string
	Anchor string
}

// auditLabel prefixes the trailer comment appended after every injection.
const auditLabel = "automated-build"

// FeedFragment is one summary card in the index feed region. ArticleRef
// is the card's navigable link target and doubles as its identity for
// deduplication.
type FeedFragment struct {
	ArticleRef string
	Title      string
	Excerpt    string
	ThumbRef   string
	Date       time.Time
}

// Key is the fragment's deterministic identity: the article reference's
// final path segment, extension-free.
func (f FeedFragment) Key() string {
	base := path.Base(f.ArticleRef)
	return strings.TrimSuffix(base, path.Ext(base))
}

// InjectFragment rewrites the index document so that it carries exactly
// one card for the fragment's article, newest first, and appends an audit
// trailer. The input is never touched on error; bytes outside the feed
// region and the trailer are preserved as-is.
func InjectFragment(index string, frag FeedFragment, m Markers, now time.Time) (string, error) {
	doc, err := ensureFeedRegion(index, m)
	if err != nil {
		return "", err
	}

	start := strings.Index(doc, m.Start)
	contentStart := start + len(m.Start)
	regionLen := strings.Index(doc[contentStart:], m.End)
	if regionLen < 0 {
		return "", &StructureError{Reason: "end marker precedes start marker"}
	}
	contentEnd := contentStart + regionLen

	region := doc[contentStart:contentEnd]
	region = removeFragmentBlocks(region, frag.ArticleRef)
	region = frag.render() + region

	doc = doc[:contentStart] + region + doc[contentEnd:]
	doc += "\n<!-- " + auditLabel + " " + now.UTC().Format("2006-01-02 15:04:05 -0700") + " -->\n"
	return doc, nil
}

// ensureFeedRegion returns the document with a guaranteed start/end
// marker pair. Bootstrap order: existing pair, legacy token migration,
// listing-container anchor, then <body> (wrapping a fresh container).
func ensureFeedRegion(doc string, m Markers) (string, error) {
	hasStart := strings.Contains(doc, m.Start)
	hasEnd := strings.Contains(doc, m.End)
	if hasStart && hasEnd {
		return doc, nil
	}
	if hasStart != hasEnd {
		return "", &StructureError{Reason: "index has only one of the two feed markers"}
	}

	pair := "\n" + m.Start + "\n" + m.End
	if m.Legacy != "" {
		if at := strings.Index(doc, m.Legacy); at >= 0 {
			at += len(m.Legacy)
			return doc[:at] + pair + doc[at:], nil
		}
	}
	if m.Anchor != "" {
		if at := openTagEnd(doc, m.Anchor); at >= 0 {
			return doc[:at] + pair + doc[at:], nil
		}
	}
	if at := openTagEnd(doc, "<body"); at >= 0 {
		return doc[:at] + "\n<main class=\"grid\">" + pair + "\n</main>" + doc[at:], nil
	}
	return "", &StructureError{Reason: "no feed markers and no listing container or <body> anchor"}
}

// openTagEnd finds the first opening tag starting with prefix (e.g.
// "<main") and returns the position just past its closing '>'.
// Case-insensitive; -1 when absent.
func openTagEnd(doc, prefix string) int {
	lower := strings.ToLower(doc)
	prefix = strings.ToLower(prefix)
	from := 0
	for {
		i := strings.Index(lower[from:], prefix)
		if i < 0 {
			return -1
		}
		i += from
		rest := lower[i+len(prefix):]
		// reject partial matches such as <mainframe for <main
		if rest != "" && rest[0] != '>' && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
			from = i + len(prefix)
			continue
		}
		if gt := strings.Index(rest, ">"); gt >= 0 {
			return i + len(prefix) + gt + 1
		}
		return -1
	}
}

// removeFragmentBlocks deletes every card whose link target equals ref,
// including the leading card comment, guaranteeing idempotent injection.
func removeFragmentBlocks(region, ref string) string {
	needle := `href="` + ref + `"`
	for {
		i := strings.Index(region, needle)
		if i < 0 {
			return region
		}
		blockStart := strings.LastIndex(region[:i], "<a")
		if blockStart < 0 {
			return region
		}
		closing := strings.Index(region[i:], "</a>")
		if closing < 0 {
			return region
		}
		blockEnd := i + closing + len("</a>")

		// absorb the card comment that labels the block
		head := strings.TrimRight(region[:blockStart], " \t\r\n")
		if strings.HasSuffix(head, "-->") {
			if open := strings.LastIndex(head, "<!--"); open >= 0 && strings.Contains(head[open:], "card-") {
				blockStart = open
			}
		}
		region = strings.TrimRight(region[:blockStart], " \t") + region[blockEnd:]
	}
}

// render serializes the fragment into card markup. The leading newline
// keeps the card on its own lines right after the start marker.
func (f FeedFragment) render() string {
	thumb := `<div style="aspect-ratio:4/3;border:1px solid rgba(255,255,255,.12);background:rgba(255,255,255,.05)"></div>`
	if f.ThumbRef != "" {
		thumb = `<img src="` + f.ThumbRef + `" alt="` + html.EscapeString("Photo de "+f.Title) + `">`
	}

	var b strings.Builder
	b.WriteString("\n      <!-- card-")
	b.WriteString(f.Key())
	b.WriteString(" -->\n      <a class=\"card\" href=\"")
	b.WriteString(f.ArticleRef)
	b.WriteString("\">\n        <figure>\n          ")
	b.WriteString(thumb)
	b.WriteString("\n          <figcaption>\n            <div class=\"title\">")
	b.WriteString(html.EscapeString(f.Title))
	b.WriteString("</div>\n            <div class=\"excerpt\">")
	b.WriteString(html.EscapeString(f.Excerpt))
	b.WriteString("</div>\n            <div class=\"date\">")
	b.WriteString(f.Date.Format("02/01/2006"))
	b.WriteString("</div>\n          </figcaption>\n        </figure>\n      </a>")
	return b.String()
}
