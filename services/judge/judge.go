// Package judge scores model responses with an LLM acting as grader.
package judge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/services/providers"
)

const evaluationPromptTemplate = `You are an expert evaluator of AI responses. Rate the following response on a scale of 0.0 to 1.0 based on these criteria:
- Accuracy and correctness
- Completeness and thoroughness
- Clarity and coherence
- Relevance to the prompt
- Overall quality

Prompt Category: %s
Original Prompt: %s

Response to Evaluate:
%s

Provide your evaluation in the following format:
Score: [0.0-1.0]
Reasoning: [Your detailed explanation]

Be strict but fair. Only exceptional responses should score above 0.9.
`

// Evaluation is the judge's verdict on a single response
type Evaluation struct {
	Score     float64
	Reasoning string
}

// Judge evaluates responses using a capable grader model
type Judge struct {
	provider providers.Provider
	config   config.JudgeConfig
	logger   *zap.Logger
}

// New creates a new Judge backed by the given grader provider
func New(provider providers.Provider, cfg config.JudgeConfig, logger *zap.Logger) *Judge {
	return &Judge{
		provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// Model returns the grader model identifier
func (j *Judge) Model() string {
	return j.provider.Model()
}

// Evaluate scores a response against its originating prompt. A grader
// failure is folded into the verdict rather than returned as an error,
// so one flaky judge call never aborts a running sweep.
func (j *Judge) Evaluate(ctx context.Context, prompt, response string, category models.PromptCategory) Evaluation {
	evaluationPrompt := fmt.Sprintf(evaluationPromptTemplate, category, prompt, response)

	result, err := j.provider.Generate(ctx, evaluationPrompt, providers.GenerationOptions{
		MaxTokens:   j.config.MaxTokens,
		Temperature: j.config.Temperature,
	})
	if err != nil {
		j.logger.Warn("judge generation failed",
			zap.String("judge_model", j.provider.Model()),
			zap.String("category", string(category)),
			zap.Error(err))
		return Evaluation{
			Score:     0.0,
			Reasoning: fmt.Sprintf("Evaluation failed: %v", err),
		}
	}

	score, reasoning := parseEvaluation(result.Text)
	return Evaluation{Score: score, Reasoning: reasoning}
}

// parseEvaluation extracts the score and reasoning from the grader's
// free-text verdict. Unparseable scores default to 0.5 and everything
// after the first "Reasoning:" marker is captured verbatim.
func parseEvaluation(text string) (float64, string) {
	score := 0.0
	reasoning := ""

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "Score:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "Score:"))
			raw = strings.TrimSpace(strings.Trim(raw, "[]"))
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				score = 0.5
				continue
			}
			score = clamp(parsed, 0.0, 1.0)
		case strings.HasPrefix(line, "Reasoning:"):
			reasoning = strings.TrimSpace(strings.TrimPrefix(line, "Reasoning:"))
		}
	}

	// A multi-line reasoning section continues past its marker line
	if idx := strings.Index(text, "Reasoning:"); idx >= 0 {
		reasoning = strings.TrimSpace(text[idx+len("Reasoning:"):])
	}

	return score, reasoning
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
