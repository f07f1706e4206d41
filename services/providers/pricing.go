package providers

import (
	"strings"
	"time"
)

// ModelPricing holds per-1k-token USD prices for one model
type ModelPricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// Cost returns the USD cost of a call given its token counts
func (p ModelPricing) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)/1000)*p.InputPer1K + (float64(outputTokens)/1000)*p.OutputPer1K
}

// defaultPricing maps known model identifiers to their per-1k-token prices.
// Unknown models fall back to zero pricing so the pipeline still records
// token counts; the aggregator reports a zero quality-per-cost ratio for
// zero-cost rows rather than dividing by zero.
var defaultPricing = map[string]ModelPricing{
	"gpt-4o":            {InputPer1K: 0.0025, OutputPer1K: 0.01},
	"gpt-4o-mini":       {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	"claude-3-5-sonnet": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"claude-3-haiku":    {InputPer1K: 0.00025, OutputPer1K: 0.00125},
	"gemini-1.5-pro":    {InputPer1K: 0.00125, OutputPer1K: 0.005},
	"gemini-1.5-flash":  {InputPer1K: 0.000075, OutputPer1K: 0.0003},
}

// PricingFor returns the pricing for a model, matching on exact id first and
// then on id prefix (versioned model ids like "gpt-4o-2024-08-06")
func PricingFor(model string) ModelPricing {
	if p, ok := defaultPricing[model]; ok {
		return p
	}
	for id, p := range defaultPricing {
		if strings.HasPrefix(model, id) {
			return p
		}
	}
	return ModelPricing{}
}

// EstimateTokens approximates a token count from whitespace-separated words
// when the provider does not return exact usage. Roughly 4 words ≈ 3 tokens
// inverted: tokens ≈ words / 0.75.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(float64(words)/0.75) + 1
}

// BuildResult assembles a GenerationResult from raw call measurements,
// filling in cost and throughput.
func BuildResult(model, text string, inputTokens, outputTokens int, started time.Time, ttft *float64, metadata map[string]string) *GenerationResult {
	latency := time.Since(started).Seconds()

	tokensPerSecond := 0.0
	if latency > 0 {
		tokensPerSecond = float64(outputTokens) / latency
	}

	return &GenerationResult{
		Text:             text,
		InputTokens:      inputTokens,
		OutputTokens:     outputTokens,
		TotalCost:        PricingFor(model).Cost(inputTokens, outputTokens),
		TimeToFirstToken: ttft,
		TotalLatency:     latency,
		TokensPerSecond:  tokensPerSecond,
		Metadata:         metadata,
	}
}
