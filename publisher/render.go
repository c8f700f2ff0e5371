package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"auto_recipe_site_generator/generator"
)

// Template placeholders. The hero and schema placeholders are optional so
// that minimal templates keep working.
const (
	phTitle        = "{{TITLE}}"
	phHeroFilename = "{{HERO_FILENAME}}"
	phHeroAlt      = "{{HERO_ALT}}"
	phIntroHTML    = "{{INTRO_HTML}}"
	phIngredients2 = "{{INGREDIENTS_2}}"
	phIngredients3 = "{{INGREDIENTS_3}}"
	phIngredients4 = "{{INGREDIENTS_4}}"
	phStepsHTML    = "{{STEPS_HTML}}"
	phSchemaJSON   = "{{SCHEMA_JSON}}"
)

var requiredPlaceholders = []string{
	phTitle, phIntroHTML, phIngredients2, phIngredients3, phIngredients4, phStepsHTML,
}

var optionalPlaceholders = []string{phHeroFilename, phHeroAlt, phSchemaJSON}

// FallbackTemplate is used when the site carries no template file.
const FallbackTemplate = `<!doctype html><html lang="fr"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{TITLE}}</title></head><body>
<h1>{{TITLE}}</h1>
<figure class="img"><img src="/images/{{HERO_FILENAME}}" alt="{{HERO_ALT}}"></figure>
{{INTRO_HTML}}
<h2>Ingrédients</h2>
<h3>Pour 2 personnes</h3>{{INGREDIENTS_2}}
<h3>Pour 3 personnes</h3>{{INGREDIENTS_3}}
<h3>Pour 4 personnes</h3>{{INGREDIENTS_4}}
<h2>Étapes</h2>
{{STEPS_HTML}}
{{SCHEMA_JSON}}
</body></html>`

var (
	lineBreaks  = regexp.MustCompile(`[\n\r]+`)
	inlineRefs  = regexp.MustCompile(`\[\s*\d+\s*\]`)
	supRefs     = regexp.MustCompile(`(?i)<sup>\s*(\[\s*\d+\s*\]|\d+)\s*</sup>`)
	heroFigure  = regexp.MustCompile(`(?is)\s*<figure\s+class="img">.*?</figure>\s*`)
	heroSrcAttr = regexp.MustCompile(`(?i)src=["']/?images/\{\{HERO_FILENAME\}\}["']`)
)

// RenderArticle is the content assembler: it substitutes every placeholder
// of the template with markup derived from the record and returns the full
// article HTML. Pure transform; the caller persists the result.
func RenderArticle(rec generator.RecipeRecord, tmpl, heroFilename string, hasImage bool) (string, error) {
	if err := generator.ValidateRecord(rec); err != nil {
		return "", err
	}
	for _, ph := range requiredPlaceholders {
		if !strings.Contains(tmpl, ph) {
			return "", &TemplateError{Placeholder: ph}
		}
	}

	introHTML, err := renderIntro(rec.Intro)
	if err != nil {
		return "", fmt.Errorf("render intro: %w", err)
	}

	title := html.EscapeString(rec.Title)
	heroAlt := html.EscapeString("Photo de " + rec.Title)
	hero := ""
	if hasImage {
		hero = heroFilename
	}

	out := tmpl
	if hasImage {
		// normalize template hero references to the site-root form
		out = heroSrcAttr.ReplaceAllString(out, `src="/images/`+phHeroFilename+`"`)
	} else {
		out = heroFigure.ReplaceAllString(out, "\n<div style=\"height:24px\"></div>\n")
	}
	out = strings.ReplaceAll(out, phTitle, title)
	out = strings.ReplaceAll(out, phHeroFilename, hero)
	out = strings.ReplaceAll(out, phHeroAlt, heroAlt)
	out = strings.ReplaceAll(out, phIntroHTML, introHTML)
	out = strings.ReplaceAll(out, phIngredients2, renderList(rec.Ingredients2))
	out = strings.ReplaceAll(out, phIngredients3, renderList(rec.Ingredients3))
	out = strings.ReplaceAll(out, phIngredients4, renderList(rec.Ingredients4))
	out = strings.ReplaceAll(out, phStepsHTML, renderSteps(rec.Steps))
	if strings.Contains(out, phSchemaJSON) {
		schema, err := buildSchemaJSON(rec, hero)
		if err != nil {
			return "", fmt.Errorf("schema json: %w", err)
		}
		out = strings.ReplaceAll(out, phSchemaJSON, schema)
	}

	for _, ph := range append(append([]string{}, requiredPlaceholders...), optionalPlaceholders...) {
		if strings.Contains(out, ph) {
			return "", &TemplateError{Placeholder: ph}
		}
	}
	return out, nil
}

// renderIntro strips stray reference markers, renders the intro's light
// Markdown, and tags the leading paragraph for the article layout.
func renderIntro(intro string) (string, error) {
	cleaned := StripInlineRefs(intro)
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(cleaned), &buf); err != nil {
		return "", err
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") {
		return `<p class="lead">` + strings.TrimPrefix(out, "<p>"), nil
	}
	return `<p class="lead">` + out + `</p>`, nil
}

// StripInlineRefs removes citation-style markers the model sometimes adds
// despite the prompt ("[1]", "<sup>2</sup>").
func StripInlineRefs(s string) string {
	s = supRefs.ReplaceAllString(s, "")
	return inlineRefs.ReplaceAllString(s, "")
}

// renderList renders one ingredient list; one <li> per input item.
func renderList(items []string) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, item := range items {
		b.WriteString("  <li>")
		b.WriteString(html.EscapeString(collapseLines(item)))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>")
	return b.String()
}

// renderSteps wraps each step in its own block so the rendered step count
// always equals the record's step count.
func renderSteps(steps []string) string {
	blocks := make([]string, len(steps))
	for i, s := range steps {
		blocks[i] = `<div class="step"><p>` + html.EscapeString(collapseLines(s)) + `</p></div>`
	}
	return strings.Join(blocks, "\n")
}

func collapseLines(s string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(s, " "))
}

type schemaStep struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type schemaRecipe struct {
	Context            string       `json:"@context"`
	Type               string       `json:"@type"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	RecipeCuisine      string       `json:"recipeCuisine"`
	Image              []string     `json:"image"`
	RecipeInstructions []schemaStep `json:"recipeInstructions"`
}

// buildSchemaJSON emits the schema.org Recipe block used by search engines.
func buildSchemaJSON(rec generator.RecipeRecord, heroFilename string) (string, error) {
	images := []string{}
	if heroFilename != "" {
		images = append(images, "/images/"+heroFilename)
	}
	steps := make([]schemaStep, len(rec.Steps))
	for i, s := range rec.Steps {
		steps[i] = schemaStep{Type: "HowToStep", Text: collapseLines(s)}
	}
	data, err := json.Marshal(schemaRecipe{
		Context:            "https://schema.org",
		Type:               "Recipe",
		Name:               rec.Title,
		Description:        StripInlineRefs(rec.Intro),
		RecipeCuisine:      "Asiatique",
		Image:              images,
		RecipeInstructions: steps,
	})
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + string(data) + `</script>`, nil
}
