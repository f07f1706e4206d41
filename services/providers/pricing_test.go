package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelPricingCost(t *testing.T) {
	pricing := ModelPricing{InputPer1K: 0.0025, OutputPer1K: 0.01}

	assert.InDelta(t, 0.0025+0.01, pricing.Cost(1000, 1000), 1e-9)
	assert.InDelta(t, 0.00125, pricing.Cost(500, 0), 1e-9)
	assert.Equal(t, 0.0, pricing.Cost(0, 0))
}

func TestPricingFor(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		p := PricingFor("gpt-4o-mini")
		assert.Equal(t, 0.00015, p.InputPer1K)
	})

	t.Run("versioned id falls back to prefix", func(t *testing.T) {
		p := PricingFor("gpt-4o-2024-08-06")
		assert.Equal(t, 0.0025, p.InputPer1K)
	})

	t.Run("unknown model gets zero pricing", func(t *testing.T) {
		p := PricingFor("mystery-model")
		assert.Equal(t, 0.0, p.InputPer1K)
		assert.Equal(t, 0.0, p.OutputPer1K)
	})
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("   "))

	// 6 words / 0.75 + 1 = 9
	assert.Equal(t, 9, EstimateTokens("the quick brown fox jumps over"))
}

func TestBuildResult(t *testing.T) {
	started := time.Now().Add(-2 * time.Second)

	result := BuildResult("gpt-4o", "hello world", 100, 50, started, nil, map[string]string{"provider": "openai"})

	require.NotNil(t, result)
	assert.Equal(t, "hello world", result.Text)
	assert.Equal(t, 100, result.InputTokens)
	assert.Equal(t, 50, result.OutputTokens)
	assert.InDelta(t, (100.0/1000)*0.0025+(50.0/1000)*0.01, result.TotalCost, 1e-9)
	assert.GreaterOrEqual(t, result.TotalLatency, 2.0)
	assert.Greater(t, result.TokensPerSecond, 0.0)
	assert.Nil(t, result.TimeToFirstToken)
	assert.Equal(t, "openai", result.Metadata["provider"])
}
