package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/llm-value-router/models"
)

// ModelCategory identifies one (model, category) aggregation key
type ModelCategory struct {
	ModelName string
	Category  models.PromptCategory
}

// ResultAggregate holds the raw aggregate statistics for one (model, category)
// pair. Mean fields are nil when no contributing rows carry a value.
type ResultAggregate struct {
	MeanQuality    *float64
	MeanCost       *float64
	MeanLatency    float64
	MeanThroughput float64
	SampleCount    int
}

// ResultFilter narrows evaluation result queries
type ResultFilter struct {
	ModelName string
	Category  models.PromptCategory
	RunID     *uuid.UUID
	Limit     int
}

// RunRepository handles benchmark run persistence
type RunRepository interface {
	// Create persists a new benchmark run
	Create(ctx context.Context, run *models.BenchmarkRun) error

	// GetByID retrieves a run by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.BenchmarkRun, error)

	// Complete marks a run as completed, recording its completion timestamp
	Complete(ctx context.Context, run *models.BenchmarkRun) error

	// List retrieves the most recent runs
	List(ctx context.Context, limit int) ([]*models.BenchmarkRun, error)
}

// ResultRepository handles evaluation result persistence.
// Result rows are append-only; the store tolerates concurrent inserts from
// independent sweep workers without coordination.
type ResultRepository interface {
	// Create inserts a new evaluation result row
	Create(ctx context.Context, result *models.EvaluationResult) error

	// List retrieves evaluation results matching the filter, newest first
	List(ctx context.Context, filter ResultFilter) ([]*models.EvaluationResult, error)

	// DistinctModelCategories enumerates every (model, category) pair present
	// in the result store
	DistinctModelCategories(ctx context.Context) ([]ModelCategory, error)

	// Aggregate computes mean quality/cost/latency/throughput and the sample
	// count over all result rows for one (model, category) pair
	Aggregate(ctx context.Context, modelName string, category models.PromptCategory) (*ResultAggregate, error)
}

// PerformanceRepository handles the performance summary cache
type PerformanceRepository interface {
	// Upsert creates or fully overwrites the summary for its (model, category) key
	Upsert(ctx context.Context, summary *models.PerformanceSummary) error

	// GetByKey retrieves the summary for one (model, category) key.
	// Returns nil when no summary exists for the key.
	GetByKey(ctx context.Context, modelName string, category models.PromptCategory) (*models.PerformanceSummary, error)

	// BestForThreshold returns the cheapest summary whose mean quality meets
	// the threshold, optionally restricted to a category. Ties in cost break
	// on model name ascending so selection is deterministic. Returns nil when
	// no summary qualifies.
	BestForThreshold(ctx context.Context, threshold float64, category *models.PromptCategory) (*models.PerformanceSummary, error)

	// Frontier returns summaries with at least minSamples samples, optionally
	// restricted to a category, ordered by quality-per-cost ratio descending
	Frontier(ctx context.Context, category *models.PromptCategory, minSamples int) ([]*models.PerformanceSummary, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Runs        RunRepository
	Results     ResultRepository
	Performance PerformanceRepository
}
