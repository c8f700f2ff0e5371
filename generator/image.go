package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// heroSizes is the size ladder tried for each prompt. Landscape first to
// match the card and article layout.
var heroSizes = []string{"1536x1024", "1024x1024"}

const downloadMaxElapsed = 30 * time.Second

// HeroGenerator produces the article's hero photo through the images API.
// Every failure is soft: the caller publishes without an image.
type HeroGenerator struct {
	model  string
	opts   []option.RequestOption
	client *http.Client
	log    *zap.SugaredLogger
}

func NewHeroGenerator(model string, cfg *LLMSettings, logger *zap.SugaredLogger) (*HeroGenerator, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("image generation requires an api key")
	}
	if model == "" {
		return nil, errors.New("image model is required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &HeroGenerator{
		model:  model,
		opts:   opts,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    logger,
	}, nil
}

// Generate walks the prompt/size ladder until one attempt yields image
// bytes, then writes them to outPath.
func (g *HeroGenerator) Generate(ctx context.Context, title, keywords, outPath string) error {
	client := openai.NewClient(g.opts...)

	var lastErr error
	for _, prompt := range heroPrompts(title, keywords) {
		for _, size := range heroSizes {
			data, err := g.attempt(ctx, &client, prompt, size)
			if err != nil {
				g.log.Infow("hero image attempt failed", "size", size, "error", err)
				lastErr = err
				continue
			}
			return os.WriteFile(outPath, data, 0644)
		}
	}
	return fmt.Errorf("all hero image attempts failed: %w", lastErr)
}

func (g *HeroGenerator) attempt(ctx context.Context, client *openai.Client, prompt, size string) ([]byte, error) {
	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(g.model),
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize(size),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("image response has no data")
	}
	d := resp.Data[0]
	if d.B64JSON != "" {
		return base64.StdEncoding.DecodeString(d.B64JSON)
	}
	if d.URL != "" {
		return g.download(ctx, d.URL)
	}
	return nil, errors.New("image response carries neither b64 payload nor url")
}

// download fetches a result URL, retrying transient failures.
func (g *HeroGenerator) download(ctx context.Context, url string) ([]byte, error) {
	// BackOff implementations are stateful; always build a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = downloadMaxElapsed

	var body []byte
	err := backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("image download: unexpected status %s", resp.Status)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func heroPrompts(title, keywords string) []string {
	if keywords == "" {
		keywords = "asian noodles, chicken, glossy sauce, chopsticks"
	}
	return []string{
		fmt.Sprintf("Food photography, high-end editorial, soft daylight, shallow depth of field. "+
			"Dish: %s. Keywords: %s. Serve on a beautiful plate, elegant cutlery and chopsticks on side. "+
			"Asian table setting, neutral background, appetizing, realistic.", title, keywords),
		fmt.Sprintf("Professional food photo of %s. Gorgeous plating, chopsticks, clean linen napkin, restaurant quality.", title),
	}
}
