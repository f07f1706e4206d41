package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PromptCategory classifies benchmark prompts by task type
type PromptCategory string

const (
	CategoryCoding          PromptCategory = "coding"
	CategorySummarization   PromptCategory = "summarization"
	CategoryCreativeWriting PromptCategory = "creative_writing"
	CategoryReasoning       PromptCategory = "reasoning"
	CategoryFactual         PromptCategory = "factual"
)

// EvaluationResult stores one model-response-judgment triple.
// Rows are append-only: written once by the orchestrator and never mutated.
// Exactly one of ResponseText / ErrorMessage is set.
type EvaluationResult struct {
	ID       uuid.UUID `json:"id" db:"id"`
	RunID    uuid.UUID `json:"run_id" db:"run_id"`

	// Model information
	ModelName string `json:"model_name" db:"model_name"`
	Provider  string `json:"provider" db:"provider"`

	// Prompt information
	PromptID       string         `json:"prompt_id" db:"prompt_id"`
	PromptText     string         `json:"prompt_text" db:"prompt_text"`
	PromptCategory PromptCategory `json:"prompt_category" db:"prompt_category"`
	TurnNumber     int            `json:"turn_number" db:"turn_number"`

	// Response
	ResponseText *string `json:"response_text,omitempty" db:"response_text"`

	// Quality metrics
	QualityScore   *float64 `json:"quality_score,omitempty" db:"quality_score"`
	JudgeReasoning *string  `json:"judge_reasoning,omitempty" db:"judge_reasoning"`

	// Cost metrics
	InputTokens  int     `json:"input_tokens" db:"input_tokens"`
	OutputTokens int     `json:"output_tokens" db:"output_tokens"`
	TotalCost    float64 `json:"total_cost" db:"total_cost"` // USD

	// Performance metrics
	TimeToFirstToken *float64 `json:"time_to_first_token,omitempty" db:"time_to_first_token"` // seconds
	TotalLatency     float64  `json:"total_latency" db:"total_latency"`                       // seconds
	TokensPerSecond  float64  `json:"tokens_per_second" db:"tokens_per_second"`

	// Metadata
	RawMetadata  json.RawMessage `json:"raw_metadata,omitempty" db:"raw_metadata"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
	ErrorMessage *string         `json:"error_message,omitempty" db:"error_message"`
}

// TableName returns the table name for the EvaluationResult model
func (EvaluationResult) TableName() string {
	return "evaluation_results"
}

// NewEvaluationResult creates a successful evaluation row
func NewEvaluationResult(runID uuid.UUID, modelName, provider, promptID, promptText string, category PromptCategory, turn int) *EvaluationResult {
	return &EvaluationResult{
		ID:             uuid.New(),
		RunID:          runID,
		ModelName:      modelName,
		Provider:       provider,
		PromptID:       promptID,
		PromptText:     promptText,
		PromptCategory: category,
		TurnNumber:     turn,
		Timestamp:      time.Now().UTC(),
	}
}

// SetResponse records the generated response plus its judgment
func (e *EvaluationResult) SetResponse(text string, score float64, reasoning string) {
	e.ResponseText = &text
	e.QualityScore = &score
	e.JudgeReasoning = &reasoning
	e.ErrorMessage = nil
}

// SetGeneration records token, cost and latency accounting from the provider
func (e *EvaluationResult) SetGeneration(inputTokens, outputTokens int, cost float64, ttft *float64, latency, tokensPerSec float64, metadata map[string]string) {
	e.InputTokens = inputTokens
	e.OutputTokens = outputTokens
	e.TotalCost = cost
	e.TimeToFirstToken = ttft
	e.TotalLatency = latency
	e.TokensPerSecond = tokensPerSec
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			e.RawMetadata = data
		}
	}
}

// NewErrorResult creates an error row: zeroed metrics, score 0, error message set.
// The failed evaluation still occupies a row so sample counts and failure
// rates remain auditable.
func NewErrorResult(runID uuid.UUID, modelName, provider, promptID, promptText string, category PromptCategory, turn int, errMsg string) *EvaluationResult {
	zero := 0.0
	return &EvaluationResult{
		ID:             uuid.New(),
		RunID:          runID,
		ModelName:      modelName,
		Provider:       provider,
		PromptID:       promptID,
		PromptText:     promptText,
		PromptCategory: category,
		TurnNumber:     turn,
		QualityScore:   &zero,
		Timestamp:      time.Now().UTC(),
		ErrorMessage:   &errMsg,
	}
}

// IsError returns true when the evaluation failed
func (e *EvaluationResult) IsError() bool {
	return e.ErrorMessage != nil
}

// Score returns the quality score, treating an absent score as 0
func (e *EvaluationResult) Score() float64 {
	if e.QualityScore == nil {
		return 0.0
	}
	return *e.QualityScore
}
