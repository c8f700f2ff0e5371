package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"auto_recipe_site_generator/generator"
)

// HeroFunc generates the hero image for a recipe and writes it to
// outPath. A nil HeroFunc or a returned error publishes without an image.
type HeroFunc func(ctx context.Context, title, keywords, outPath string) error

// Result reports what a publishing run wrote.
type Result struct {
	ArticlePath string
	ArticleRef  string
	ImagePath   string
	HasImage    bool
}

// Publisher turns a recipe record into a published article plus an index
// card. It owns the site's on-disk layout; generation stays outside.
type Publisher struct {
	cfg *Config
	log *zap.SugaredLogger
	now func() time.Time
}

func New(cfg *Config, logger *zap.SugaredLogger) (*Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Publisher{cfg: cfg, log: logger, now: time.Now}, nil
}

// Publish renders the record, writes the article (and hero image when
// available), and splices a summary card into the index feed region.
// Index and article writes go through a temp file and rename so an
// interrupted run never leaves a half-written document.
func (p *Publisher) Publish(ctx context.Context, rec generator.RecipeRecord, hero HeroFunc) (Result, error) {
	site := p.cfg.Site
	indexPath := filepath.Join(site.Root, site.IndexPath)
	if _, err := os.Stat(indexPath); err != nil {
		return Result{}, &StructureError{Reason: fmt.Sprintf("index %s is missing", indexPath)}
	}
	articlesDir := filepath.Join(site.Root, site.ArticlesDir)
	imagesDir := filepath.Join(site.Root, site.ImagesDir)
	for _, dir := range []string{articlesDir, imagesDir, filepath.Join(site.Root, filepath.Dir(site.TemplatePath))} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Result{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	now := p.now()
	slug := ArticleSlug(rec.Title, now)
	articleFile := slug + ".html"
	heroFile := slug + "-hero.jpg"
	imagePath := filepath.Join(imagesDir, heroFile)

	hasImage := false
	if hero != nil {
		if err := hero(ctx, rec.Title, rec.ImageKeywords, imagePath); err != nil {
			p.log.Warnw("hero image unavailable, publishing without it", "error", err)
		} else {
			hasImage = true
		}
	}

	tmpl := p.loadTemplate()
	articleHTML, err := RenderArticle(rec, tmpl, heroFile, hasImage)
	if err != nil {
		return Result{}, err
	}

	articlePath := filepath.Join(articlesDir, articleFile)
	if err := writeFileAtomic(articlePath, []byte(articleHTML)); err != nil {
		return Result{}, fmt.Errorf("write article: %w", err)
	}
	p.log.Infow("article written", "path", articlePath)

	thumbRef := ""
	if hasImage {
		thumbRef = site.ImagesDir + "/" + heroFile
		if p.cfg.Feed.ThumbnailStyle == ThumbAbsolute {
			thumbRef = "/" + thumbRef
		}
	}

	indexBytes, err := os.ReadFile(indexPath)
	if err != nil {
		return Result{}, fmt.Errorf("read index: %w", err)
	}
	frag := FeedFragment{
		ArticleRef: site.ArticlesDir + "/" + articleFile,
		Title:      rec.Title,
		Excerpt:    Excerpt(StripInlineRefs(rec.Intro)),
		ThumbRef:   thumbRef,
		Date:       now,
	}
	updated, err := InjectFragment(string(indexBytes), frag, p.cfg.Feed.Markers(), now)
	if err != nil {
		return Result{}, err
	}
	if err := writeFileAtomic(indexPath, []byte(updated)); err != nil {
		return Result{}, fmt.Errorf("write index: %w", err)
	}
	p.log.Infow("index updated", "card", frag.Key())

	res := Result{ArticlePath: articlePath, ArticleRef: frag.ArticleRef, HasImage: hasImage}
	if hasImage {
		res.ImagePath = imagePath
	}
	return res, nil
}

// loadTemplate reads the site template, falling back to the embedded one.
func (p *Publisher) loadTemplate() string {
	path := filepath.Join(p.cfg.Site.Root, p.cfg.Site.TemplatePath)
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Infow("template not found, using fallback", "path", path)
		return FallbackTemplate
	}
	return string(data)
}

// writeFileAtomic writes to a temp file in the destination directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
