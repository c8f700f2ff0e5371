// Package publisher assembles recipe articles into a static site: it
// renders the article page, writes it and its hero image to disk, and
// maintains the summary-card feed region of the site index.
package publisher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Thumbnail path styles. Older layouts linked images relative to the
// index; newer ones from the site root.
const (
	ThumbRelative = "relative"
	ThumbAbsolute = "absolute"
)

// Config holds all configuration for a publishing run.
type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Feed  FeedConfig  `yaml:"feed"`
	LLM   LLMConfig   `yaml:"llm"`
	Image ImageConfig `yaml:"image"`
}

// SiteConfig holds the on-disk layout of the generated site.
type SiteConfig struct {
	Root         string `yaml:"root"`
	IndexPath    string `yaml:"index_path"`
	ArticlesDir  string `yaml:"articles_dir"`
	ImagesDir    string `yaml:"images_dir"`
	TemplatePath string `yaml:"template_path"`
}

// FeedConfig holds the feed-region markers and card rendering options.
// LegacyMarker supports older indexes that used a single token instead of
// a start/end pair.
type FeedConfig struct {
	StartMarker    string `yaml:"start_marker"`
	EndMarker      string `yaml:"end_marker"`
	LegacyMarker   string `yaml:"legacy_marker"`
	AnchorTag      string `yaml:"anchor_tag"`
	ThumbnailStyle string `yaml:"thumbnail_style"`
}

// LLMConfig selects the chat provider. The credential is never stored in
// the file; APIKeyEnv names the environment variable carrying it.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// ImageConfig controls hero image generation.
type ImageConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// ImageEnabled reports whether hero generation is on; defaults to true.
func (c *ImageConfig) ImageEnabled() bool {
	if c.Enabled != nil {
		return *c.Enabled
	}
	return true
}

// Markers returns the feed marker set for the injector.
func (c *FeedConfig) Markers() Markers {
	return Markers{
		Start:  c.StartMarker,
		End:    c.EndMarker,
		Legacy: c.LegacyMarker,
		Anchor: c.AnchorTag,
	}
}

// Load reads and parses the config file at path and applies defaults.
// A missing file is not an error: the defaults describe the standard
// site layout, so runs work without any config at all.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Site.Root == "" {
		cfg.Site.Root = "."
	}
	if cfg.Site.IndexPath == "" {
		cfg.Site.IndexPath = "index.html"
	}
	if cfg.Site.ArticlesDir == "" {
		cfg.Site.ArticlesDir = "articles"
	}
	if cfg.Site.ImagesDir == "" {
		cfg.Site.ImagesDir = "images"
	}
	if cfg.Site.TemplatePath == "" {
		cfg.Site.TemplatePath = filepath.Join("templates", "template_cuisine.html")
	}
	if cfg.Feed.StartMarker == "" {
		cfg.Feed.StartMarker = "<!-- FEED:start -->"
	}
	if cfg.Feed.EndMarker == "" {
		cfg.Feed.EndMarker = "<!-- FEED:end -->"
	}
	if cfg.Feed.AnchorTag == "" {
		cfg.Feed.AnchorTag = "<main"
	}
	if cfg.Feed.ThumbnailStyle == "" {
		cfg.Feed.ThumbnailStyle = ThumbRelative
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = "gpt-image-1"
	}
}

// ResolveAPIKey reads the credential named by APIKeyEnv. A missing key is
// a configuration error surfaced at startup, before any file is touched.
func (c *LLMConfig) ResolveAPIKey() (string, error) {
	key := os.Getenv(c.APIKeyEnv)
	if key == "" {
		return "", errors.New(c.APIKeyEnv + " is not set")
	}
	return key, nil
}
