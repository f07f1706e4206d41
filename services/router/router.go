// Package router selects the cheapest model whose benchmarked quality
// clears a caller-supplied threshold.
package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
)

// Selection is the router's routing decision with the evidence behind it
type Selection struct {
	ModelName        string                 `json:"model_name"`
	Reasoning        string                 `json:"reasoning"`
	QualityThreshold float64                `json:"quality_threshold"`
	Category         *models.PromptCategory `json:"category,omitempty"`
	Fallback         bool                   `json:"fallback"`
	ExpectedQuality  *float64               `json:"expected_quality,omitempty"`
	ExpectedCost     *float64               `json:"expected_cost,omitempty"`
	ExpectedLatency  *float64               `json:"expected_latency,omitempty"`
	QualityPerCost   *float64               `json:"quality_per_cost,omitempty"`
}

// Constraints narrows a routing decision beyond the quality threshold
type Constraints struct {
	// Threshold overrides the configured default when non-nil
	Threshold *float64

	// Category restricts the selection to one prompt category
	Category *models.PromptCategory

	// MaxCost rejects candidates whose mean cost strictly exceeds it
	MaxCost *float64
}

// ValueRouter picks models off the performance summary cache
type ValueRouter struct {
	performance repositories.PerformanceRepository
	config      config.RouterConfig
	logger      *zap.Logger
}

// New creates a new ValueRouter
func New(performance repositories.PerformanceRepository, cfg config.RouterConfig, logger *zap.Logger) *ValueRouter {
	return &ValueRouter{
		performance: performance,
		config:      cfg,
		logger:      logger,
	}
}

// SelectModel returns the cheapest model whose mean quality meets the
// threshold, or the configured fallback model when no candidate survives
// the constraints. Falling back is a normal decision, not an error; the
// reasoning string records which constraint forced it.
func (r *ValueRouter) SelectModel(ctx context.Context, constraints Constraints) (*Selection, error) {
	threshold := r.config.DefaultThreshold
	if constraints.Threshold != nil {
		threshold = *constraints.Threshold
	}

	best, err := r.performance.BestForThreshold(ctx, threshold, constraints.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	if best == nil {
		return r.fallback(threshold, constraints.Category,
			fmt.Sprintf("No model meets threshold %.2f, using fallback", threshold)), nil
	}

	if best.SampleCount < r.config.MinSamples {
		return r.fallback(threshold, constraints.Category,
			fmt.Sprintf("Insufficient data for %s (only %d samples), using fallback", best.ModelName, best.SampleCount)), nil
	}

	if constraints.MaxCost != nil && best.MeanCost > *constraints.MaxCost {
		return r.fallback(threshold, constraints.Category,
			fmt.Sprintf("%s exceeds max cost $%.4f, using fallback", best.ModelName, *constraints.MaxCost)), nil
	}

	r.logger.Info("model selected",
		zap.String("model", best.ModelName),
		zap.Float64("threshold", threshold),
		zap.Float64("mean_quality", best.MeanQuality),
		zap.Float64("mean_cost", best.MeanCost))

	return &Selection{
		ModelName:        best.ModelName,
		Reasoning:        fmt.Sprintf("Best value: %.2f quality per dollar", best.QualityPerCost),
		QualityThreshold: threshold,
		Category:         constraints.Category,
		ExpectedQuality:  &best.MeanQuality,
		ExpectedCost:     &best.MeanCost,
		ExpectedLatency:  &best.MeanLatency,
		QualityPerCost:   &best.QualityPerCost,
	}, nil
}

func (r *ValueRouter) fallback(threshold float64, category *models.PromptCategory, reasoning string) *Selection {
	r.logger.Info("falling back",
		zap.String("model", r.config.FallbackModel),
		zap.String("reason", reasoning))
	return &Selection{
		ModelName:        r.config.FallbackModel,
		Reasoning:        reasoning,
		QualityThreshold: threshold,
		Category:         category,
		Fallback:         true,
	}
}

// EfficiencyFrontier returns every summary with enough samples to trust,
// ordered by quality-per-cost descending
func (r *ValueRouter) EfficiencyFrontier(ctx context.Context, category *models.PromptCategory) ([]*models.PerformanceSummary, error) {
	frontier, err := r.performance.Frontier(ctx, category, r.config.MinSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to query frontier: %w", err)
	}
	return frontier, nil
}
