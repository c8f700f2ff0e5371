package publisher

import (
	"path"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarkers = Markers{
	Start:  "<!-- FEED:start -->",
	End:    "<!-- FEED:end -->",
	Legacy: "<!--RECIPES-->",
	Anchor: "<main",
}

var testNow = time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

const indexWithMarkers = `<!doctype html>
<html lang="fr">
<head><title>Recettes</title></head>
<body>
<header><h1>Recettes d'Asie</h1></header>
<main class="grid">
<!-- FEED:start -->
<!-- FEED:end -->
</main>
<footer>© recettes</footer>
</body>
</html>`

func fragment(ref, title string) FeedFragment {
	return FeedFragment{
		ArticleRef: ref,
		Title:      title,
		Excerpt:    "Une recette simple et savoureuse pour le soir.",
		ThumbRef:   "images/" + strings.TrimSuffix(path.Base(ref), ".html") + "-hero.jpg",
		Date:       testNow,
	}
}

func TestInjectFragmentAddsCard(t *testing.T) {
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(indexWithMarkers, frag, testMarkers, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, `href="articles/2026-08-23-nouilles.html"`))
	assert.Contains(t, out, "<!-- card-2026-08-23-nouilles -->")
	assert.Contains(t, out, `<div class="title">Nouilles au poulet</div>`)
	assert.Contains(t, out, `<div class="date">23/08/2026</div>`)

	// the card sits inside the feed region
	start := strings.Index(out, testMarkers.Start)
	end := strings.Index(out, testMarkers.End)
	card := strings.Index(out, "<!-- card-")
	assert.Greater(t, card, start)
	assert.Less(t, card, end)
}

func TestInjectFragmentIdempotent(t *testing.T) {
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	once, err := InjectFragment(indexWithMarkers, frag, testMarkers, testNow)
	require.NoError(t, err)

	frag.Title = "Nouilles au poulet (v2)"
	twice, err := InjectFragment(once, frag, testMarkers, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(twice, `href="articles/2026-08-23-nouilles.html"`))
	// the second injection's content wins
	assert.Contains(t, twice, "Nouilles au poulet (v2)")
	assert.Equal(t, 1, strings.Count(twice, "<!-- card-2026-08-23-nouilles -->"))
}

func TestInjectFragmentNewestFirst(t *testing.T) {
	fragA := fragment("articles/2026-08-22-soupe.html", "Soupe miso")
	fragB := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(indexWithMarkers, fragA, testMarkers, testNow)
	require.NoError(t, err)
	out, err = InjectFragment(out, fragB, testMarkers, testNow)
	require.NoError(t, err)

	posA := strings.Index(out, `href="articles/2026-08-22-soupe.html"`)
	posB := strings.Index(out, `href="articles/2026-08-23-nouilles.html"`)
	require.GreaterOrEqual(t, posA, 0)
	require.GreaterOrEqual(t, posB, 0)
	assert.Less(t, posB, posA, "newest card must come first")
}

func TestInjectFragmentPreservesOutsideBytes(t *testing.T) {
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(indexWithMarkers, frag, testMarkers, testNow)
	require.NoError(t, err)

	startEnd := strings.Index(indexWithMarkers, testMarkers.Start) + len(testMarkers.Start)
	prefix := indexWithMarkers[:startEnd]
	suffix := indexWithMarkers[strings.Index(indexWithMarkers, testMarkers.End):]

	assert.True(t, strings.HasPrefix(out, prefix))
	assert.Contains(t, out, suffix)
}

func TestInjectFragmentBootstrapFromContainer(t *testing.T) {
	doc := `<html><body>
<main class="grid">
</main>
</body></html>`
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(doc, frag, testMarkers, testNow)
	require.NoError(t, err)

	mainPos := strings.Index(out, `<main class="grid">`)
	startPos := strings.Index(out, testMarkers.Start)
	endPos := strings.Index(out, testMarkers.End)
	require.GreaterOrEqual(t, startPos, 0)
	require.GreaterOrEqual(t, endPos, 0)
	assert.Greater(t, startPos, mainPos)
	assert.Greater(t, endPos, startPos)
	assert.Contains(t, out, `href="articles/2026-08-23-nouilles.html"`)
}

func TestInjectFragmentBootstrapFromBody(t *testing.T) {
	doc := `<html><body>
<p>rien ici</p>
</body></html>`
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(doc, frag, testMarkers, testNow)
	require.NoError(t, err)
	assert.Contains(t, out, `<main class="grid">`)
	assert.Contains(t, out, testMarkers.Start)
	assert.Contains(t, out, `href="articles/2026-08-23-nouilles.html"`)
}

func TestInjectFragmentLegacyMarkerMigration(t *testing.T) {
	doc := `<html><body>
<section>
<!--RECIPES-->
</section>
</body></html>`
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(doc, frag, testMarkers, testNow)
	require.NoError(t, err)

	legacyPos := strings.Index(out, "<!--RECIPES-->")
	startPos := strings.Index(out, testMarkers.Start)
	assert.Greater(t, startPos, legacyPos, "pair is inserted right after the legacy token")
	assert.Contains(t, out, `href="articles/2026-08-23-nouilles.html"`)
}

func TestInjectFragmentNoAnchor(t *testing.T) {
	doc := `<div>just a fragment, no body</div>`
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	_, err := InjectFragment(doc, frag, testMarkers, testNow)
	var sErr *StructureError
	require.ErrorAs(t, err, &sErr)
}

func TestInjectFragmentSingleMarkerIsStructural(t *testing.T) {
	doc := `<html><body>
<!-- FEED:start -->
</body></html>`
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	_, err := InjectFragment(doc, frag, testMarkers, testNow)
	var sErr *StructureError
	require.ErrorAs(t, err, &sErr)
}

func TestInjectFragmentAuditTrailer(t *testing.T) {
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")

	out, err := InjectFragment(indexWithMarkers, frag, testMarkers, testNow)
	require.NoError(t, err)

	trailer := regexp.MustCompile(`<!-- automated-build \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \+0000 -->`)
	assert.Equal(t, 1, len(trailer.FindAllString(out, -1)))
	assert.Contains(t, out, "<!-- automated-build 2026-08-23 10:30:00 +0000 -->")

	// stamps accumulate, never deduplicated
	later := testNow.Add(24 * time.Hour)
	out, err = InjectFragment(out, fragment("articles/2026-08-24-soupe.html", "Soupe"), testMarkers, later)
	require.NoError(t, err)
	assert.Equal(t, 2, len(trailer.FindAllString(out, -1)))
}

func TestFragmentKey(t *testing.T) {
	frag := FeedFragment{ArticleRef: "articles/2026-08-23-nouilles-au-poulet.html"}
	assert.Equal(t, "2026-08-23-nouilles-au-poulet", frag.Key())
}

func TestFragmentRenderPlaceholderThumb(t *testing.T) {
	frag := fragment("articles/2026-08-23-nouilles.html", "Nouilles au poulet")
	frag.ThumbRef = ""
	out, err := InjectFragment(indexWithMarkers, frag, testMarkers, testNow)
	require.NoError(t, err)
	assert.Contains(t, out, "aspect-ratio:4/3")
	assert.NotContains(t, out, "<img ")
}

func TestOpenTagEndRejectsPartialMatch(t *testing.T) {
	doc := `<html><body><mainframe></mainframe><main id="x"></main></body></html>`
	at := openTagEnd(doc, "<main")
	require.Greater(t, at, 0)
	assert.Equal(t, `</main></body></html>`, doc[at:])
}
