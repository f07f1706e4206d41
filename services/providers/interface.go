package providers

import (
	"context"
)

// Provider is the unified generation capability one benchmark model is
// called through. One instance is bound to one concrete model.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "anthropic", "google")
	Name() string

	// Model returns the model identifier this client generates with
	Model() string

	// Generate produces a completion for the prompt and returns full
	// latency/cost/token accounting alongside the text
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (*GenerationResult, error)
}

// GenerationOptions bounds a single generation call
type GenerationOptions struct {
	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64
}

// GenerationResult is the standardized outcome of one generation call
type GenerationResult struct {
	// Text is the generated completion
	Text string `json:"text"`

	// Token accounting. Counts may be whitespace-estimated when the
	// provider omits exact usage.
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// TotalCost of the call in USD
	TotalCost float64 `json:"total_cost"`

	// TimeToFirstToken in seconds, captured at the first non-empty chunk
	// under streaming delivery; nil for non-streaming calls
	TimeToFirstToken *float64 `json:"time_to_first_token,omitempty"`

	// TotalLatency of the call in seconds
	TotalLatency float64 `json:"total_latency"`

	// TokensPerSecond is output throughput over the full call
	TokensPerSecond float64 `json:"tokens_per_second"`

	// Metadata holds arbitrary provider-specific details
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the request can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if provErr, ok := err.(*ProviderError); ok {
		return provErr.Retryable
	}
	return false
}
