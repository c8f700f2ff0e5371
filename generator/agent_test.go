package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM replays a fixed sequence of answers.
type scriptedLLM struct {
	answers []string
	err     error
	calls   int
}

func (s *scriptedLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	if s.err != nil {
		s.calls++
		return "", s.err
	}
	i := s.calls
	if i >= len(s.answers) {
		i = len(s.answers) - 1
	}
	s.calls++
	return s.answers[i], nil
}

func TestAgentRetriesInvalidAnswers(t *testing.T) {
	llm := &scriptedLLM{answers: []string{"pas du json", validRecipeJSON}}
	agent, err := NewAgent(llm, PromptOptions{}, nil)
	require.NoError(t, err)

	rec, err := agent.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Soupe miso express", rec.Title)
	assert.Equal(t, 2, llm.calls)
}

func TestAgentGivesUpAfterBudget(t *testing.T) {
	llm := &scriptedLLM{answers: []string{"toujours pas du json"}}
	agent, err := NewAgent(llm, PromptOptions{}, nil)
	require.NoError(t, err)

	_, err = agent.Generate(context.Background())
	require.Error(t, err)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, defaultAttempts, llm.calls)
}

func TestAgentTransportErrorAbortsImmediately(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("connection refused")}
	agent, err := NewAgent(llm, PromptOptions{}, nil)
	require.NoError(t, err)

	_, err = agent.Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, PromptOptions{}, nil)
	assert.Error(t, err)
}

func TestBuildRecipePromptContract(t *testing.T) {
	p := BuildRecipePrompt(PromptOptions{Constraints: []string{"Sans arachide."}})
	assert.Contains(t, p.User, `"ingredients_2"`)
	assert.Contains(t, p.User, `"steps"`)
	assert.Contains(t, p.User, "STRICTEMENT en JSON")
	assert.Contains(t, p.User, "Sans arachide.")
	assert.NotEmpty(t, p.System)
}
