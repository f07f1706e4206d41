package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/services/providers"
)

type stubProvider struct {
	model string
	text  string
	err   error

	lastPrompt string
	lastOpts   providers.GenerationOptions
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return s.model }

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts providers.GenerationOptions) (*providers.GenerationResult, error) {
	s.lastPrompt = prompt
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return &providers.GenerationResult{Text: s.text}, nil
}

func newTestJudge(p providers.Provider) *Judge {
	return New(p, config.JudgeConfig{Model: "gpt-4o", MaxTokens: 500, Temperature: 0.3}, zap.NewNop())
}

func TestJudgeEvaluate(t *testing.T) {
	t.Run("well formed verdict", func(t *testing.T) {
		stub := &stubProvider{
			model: "gpt-4o",
			text:  "Score: 0.85\nReasoning: Accurate and complete answer.",
		}
		j := newTestJudge(stub)

		eval := j.Evaluate(context.Background(), "Explain DNS", "DNS maps names to addresses", models.CategoryFactual)

		assert.Equal(t, 0.85, eval.Score)
		assert.Equal(t, "Accurate and complete answer.", eval.Reasoning)
		assert.Contains(t, stub.lastPrompt, "Explain DNS")
		assert.Contains(t, stub.lastPrompt, "DNS maps names to addresses")
		assert.Contains(t, stub.lastPrompt, "Prompt Category: factual")
		assert.Equal(t, 500, stub.lastOpts.MaxTokens)
		assert.Equal(t, 0.3, stub.lastOpts.Temperature)
	})

	t.Run("grader failure yields zero score not error", func(t *testing.T) {
		stub := &stubProvider{model: "gpt-4o", err: errors.New("rate limited")}
		j := newTestJudge(stub)

		eval := j.Evaluate(context.Background(), "p", "r", models.CategoryCoding)

		assert.Equal(t, 0.0, eval.Score)
		assert.Contains(t, eval.Reasoning, "Evaluation failed")
		assert.Contains(t, eval.Reasoning, "rate limited")
	})

	t.Run("multi line reasoning captured in full", func(t *testing.T) {
		stub := &stubProvider{
			model: "gpt-4o",
			text:  "Score: 0.7\nReasoning: Mostly correct.\nHowever the edge cases are not covered.",
		}
		j := newTestJudge(stub)

		eval := j.Evaluate(context.Background(), "p", "r", models.CategoryReasoning)

		assert.Equal(t, 0.7, eval.Score)
		assert.Equal(t, "Mostly correct.\nHowever the edge cases are not covered.", eval.Reasoning)
	})
}

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantScore     float64
		wantReasoning string
	}{
		{
			name:          "plain score",
			text:          "Score: 0.85\nReasoning: Good.",
			wantScore:     0.85,
			wantReasoning: "Good.",
		},
		{
			name:          "bracketed score",
			text:          "Score: [0.85]\nReasoning: Good.",
			wantScore:     0.85,
			wantReasoning: "Good.",
		},
		{
			name:      "score above range clamped",
			text:      "Score: 1.5",
			wantScore: 1.0,
		},
		{
			name:      "score below range clamped",
			text:      "Score: -0.2",
			wantScore: 0.0,
		},
		{
			name:          "unparseable score defaults to midpoint",
			text:          "Score: excellent\nReasoning: Could not commit to a number.",
			wantScore:     0.5,
			wantReasoning: "Could not commit to a number.",
		},
		{
			name:      "missing score",
			text:      "The response was adequate overall.",
			wantScore: 0.0,
		},
		{
			name:      "empty text",
			text:      "",
			wantScore: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasoning := parseEvaluation(tt.text)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}
