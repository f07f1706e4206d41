// Package aggregator recomputes the performance summary cache from raw
// evaluation results.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
)

// Aggregator rebuilds performance summaries from evaluation result rows.
// Every recompute is a full pass over the distinct (model, category) pairs
// so repeated runs over unchanged data converge to identical summaries.
type Aggregator struct {
	results     repositories.ResultRepository
	performance repositories.PerformanceRepository
	logger      *zap.Logger
}

// New creates a new Aggregator
func New(results repositories.ResultRepository, performance repositories.PerformanceRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		results:     results,
		performance: performance,
		logger:      logger,
	}
}

// RecomputeAll recomputes and upserts the summary for every (model, category)
// pair present in the result store. Pairs whose rows carry no quality or no
// cost signal are skipped rather than written as zeroed summaries, which keeps
// all-error models out of the routing tables. Returns the number of summaries
// written.
func (a *Aggregator) RecomputeAll(ctx context.Context) (int, error) {
	pairs, err := a.results.DistinctModelCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate model categories: %w", err)
	}

	written := 0
	for _, pair := range pairs {
		agg, err := a.results.Aggregate(ctx, pair.ModelName, pair.Category)
		if err != nil {
			return written, fmt.Errorf("failed to aggregate %s/%s: %w", pair.ModelName, pair.Category, err)
		}

		if !hasSignal(agg) {
			a.logger.Debug("skipping pair without quality or cost signal",
				zap.String("model", pair.ModelName),
				zap.String("category", string(pair.Category)))
			continue
		}

		summary := &models.PerformanceSummary{
			ModelName:      pair.ModelName,
			Category:       pair.Category,
			MeanQuality:    *agg.MeanQuality,
			MeanCost:       *agg.MeanCost,
			MeanLatency:    agg.MeanLatency,
			MeanThroughput: agg.MeanThroughput,
			SampleCount:    agg.SampleCount,
			QualityPerCost: models.ComputeRatio(*agg.MeanQuality, *agg.MeanCost),
			LastRecomputed: time.Now().UTC(),
		}

		if err := a.performance.Upsert(ctx, summary); err != nil {
			return written, fmt.Errorf("failed to upsert summary for %s/%s: %w", pair.ModelName, pair.Category, err)
		}
		written++
	}

	a.logger.Info("performance summaries recomputed",
		zap.Int("pairs", len(pairs)),
		zap.Int("written", written))
	return written, nil
}

// hasSignal reports whether the aggregate carries usable quality and cost
// means. A pair of all-error rows aggregates to zero cost and a zero quality
// mean; treating that as signal would surface free perfect-looking garbage to
// the router.
func hasSignal(agg *repositories.ResultAggregate) bool {
	if agg.MeanQuality == nil || agg.MeanCost == nil {
		return false
	}
	return *agg.MeanQuality != 0 && *agg.MeanCost != 0
}
