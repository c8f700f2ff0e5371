package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"auto_recipe_site_generator/generator"
	"auto_recipe_site_generator/publisher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	site := flag.String("site", "", "site root directory (overrides config.site.root)")
	mock := flag.Bool("mock", false, "use the mock LLM, no API calls")
	skipImage := flag.Bool("skip-image", false, "skip hero image generation")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	logger := buildLogger(*verbose)
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Debugw("no .env file loaded", "error", err)
	}

	cfg, err := publisher.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *site != "" {
		cfg.Site.Root = *site
	}

	llm, hero, err := buildClients(cfg, *mock, *skipImage, sugar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	agent, err := generator.NewAgent(llm, generator.PromptOptions{}, sugar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pub, err := publisher.New(cfg, sugar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	rec, err := agent.Generate(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sugar.Infow("recipe generated", "title", rec.Title, "steps", len(rec.Steps))

	res, err := pub.Publish(ctx, rec, hero)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sugar.Infow("run complete", "article", res.ArticlePath, "image", res.HasImage)
	fmt.Println(res.ArticleRef)
}

func buildLogger(verbose bool) *zap.Logger {
	if verbose {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

// buildClients resolves the credential once at startup and constructs the
// chat client plus the optional hero image hook.
func buildClients(cfg *publisher.Config, mock, skipImage bool, sugar *zap.SugaredLogger) (generator.LLMClient, publisher.HeroFunc, error) {
	if mock {
		return generator.MockLLM{}, nil, nil
	}

	apiKey, err := cfg.LLM.ResolveAPIKey()
	if err != nil {
		return nil, nil, err
	}
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   apiKey,
		BaseURL:  cfg.LLM.BaseURL,
	}

	var llm generator.LLMClient
	switch cfg.LLM.Provider {
	case "openai":
		llm, err = generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base_url is mandatory.
		if cfg.LLM.BaseURL == "" {
			return nil, nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		llm, err = generator.NewOpenAILLMFromConfig(settings)
	default:
		return nil, nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, nil, err
	}

	if skipImage || !cfg.Image.ImageEnabled() {
		return llm, nil, nil
	}
	heroGen, err := generator.NewHeroGenerator(cfg.Image.Model, settings, sugar)
	if err != nil {
		return nil, nil, err
	}
	return llm, heroGen.Generate, nil
}
