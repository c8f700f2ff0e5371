package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// defaultAttempts bounds re-asks when the model answers with malformed JSON.
const defaultAttempts = 3

// Agent drives recipe generation against an LLM, re-asking a fixed number
// of times when the answer fails to parse or validate.
type Agent struct {
	llm      LLMClient
	opts     PromptOptions
	attempts int
	log      *zap.SugaredLogger
}

func NewAgent(llm LLMClient, opts PromptOptions, logger *zap.SugaredLogger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Agent{llm: llm, opts: opts, attempts: defaultAttempts, log: logger}, nil
}

// Generate asks the model for one recipe. Transport errors abort
// immediately; validation errors are retried with a fresh completion.
func (a *Agent) Generate(ctx context.Context) (RecipeRecord, error) {
	prompt := BuildRecipePrompt(a.opts)

	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		raw, err := a.llm.Complete(ctx, prompt)
		if err != nil {
			return RecipeRecord{}, fmt.Errorf("llm completion: %w", err)
		}

		rec, err := ParseRecipe(raw)
		if err == nil {
			return rec, nil
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return RecipeRecord{}, err
		}
		a.log.Warnw("recipe parse failed, retrying", "attempt", attempt, "error", err)
		lastErr = err
	}
	return RecipeRecord{}, fmt.Errorf("no valid recipe after %d attempts: %w", a.attempts, lastErr)
}
