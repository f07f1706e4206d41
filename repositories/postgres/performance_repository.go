package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
	"go.uber.org/zap"
)

// PerformanceRepository implements the repositories.PerformanceRepository interface
type PerformanceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPerformanceRepository creates a new performance summary repository
func NewPerformanceRepository(db *DB, logger *zap.Logger) repositories.PerformanceRepository {
	return &PerformanceRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or fully overwrites the summary for its (model, category) key
func (r *PerformanceRepository) Upsert(ctx context.Context, summary *models.PerformanceSummary) error {
	query := `
		INSERT INTO performance_summaries (
			model_name, category, mean_quality, mean_cost, mean_latency,
			mean_throughput, sample_count, quality_per_cost, last_recomputed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (model_name, category) DO UPDATE SET
			mean_quality = EXCLUDED.mean_quality,
			mean_cost = EXCLUDED.mean_cost,
			mean_latency = EXCLUDED.mean_latency,
			mean_throughput = EXCLUDED.mean_throughput,
			sample_count = EXCLUDED.sample_count,
			quality_per_cost = EXCLUDED.quality_per_cost,
			last_recomputed = EXCLUDED.last_recomputed
	`

	_, err := r.db.ExecContext(ctx, query,
		summary.ModelName,
		summary.Category,
		summary.MeanQuality,
		summary.MeanCost,
		summary.MeanLatency,
		summary.MeanThroughput,
		summary.SampleCount,
		summary.QualityPerCost,
		summary.LastRecomputed,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert performance summary: %w", err)
	}

	r.logger.Debug("performance summary upserted",
		zap.String("model", summary.ModelName),
		zap.String("category", string(summary.Category)),
		zap.Int("samples", summary.SampleCount))
	return nil
}

// GetByKey retrieves the summary for one (model, category) key.
// Returns nil when no summary exists for the key.
func (r *PerformanceRepository) GetByKey(ctx context.Context, modelName string, category models.PromptCategory) (*models.PerformanceSummary, error) {
	query := selectSummary + ` WHERE model_name = $1 AND category = $2`

	summary, err := r.scanSummary(r.db.QueryRowContext(ctx, query, modelName, category))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get performance summary: %w", err)
	}

	return summary, nil
}

// BestForThreshold returns the cheapest summary whose mean quality meets the
// threshold. The comparison is inclusive and ties in cost break on model
// name ascending. Returns nil when no summary qualifies; absence of a
// candidate is a routing decision, not an error.
func (r *PerformanceRepository) BestForThreshold(ctx context.Context, threshold float64, category *models.PromptCategory) (*models.PerformanceSummary, error) {
	query := selectSummary + ` WHERE mean_quality >= $1`
	args := []interface{}{threshold}

	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}

	query += ` ORDER BY mean_cost ASC, model_name ASC LIMIT 1`

	summary, err := r.scanSummary(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find best model for threshold: %w", err)
	}

	return summary, nil
}

// Frontier returns summaries with at least minSamples samples ordered by
// quality-per-cost ratio descending
func (r *PerformanceRepository) Frontier(ctx context.Context, category *models.PromptCategory, minSamples int) ([]*models.PerformanceSummary, error) {
	query := selectSummary + ` WHERE sample_count >= $1`
	args := []interface{}{minSamples}

	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}

	query += ` ORDER BY quality_per_cost DESC, model_name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query efficiency frontier: %w", err)
	}
	defer rows.Close()

	var summaries []*models.PerformanceSummary
	for rows.Next() {
		summary := &models.PerformanceSummary{}
		err := rows.Scan(
			&summary.ModelName,
			&summary.Category,
			&summary.MeanQuality,
			&summary.MeanCost,
			&summary.MeanLatency,
			&summary.MeanThroughput,
			&summary.SampleCount,
			&summary.QualityPerCost,
			&summary.LastRecomputed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance summary rows: %w", err)
	}

	return summaries, nil
}

const selectSummary = `
	SELECT model_name, category, mean_quality, mean_cost, mean_latency,
	       mean_throughput, sample_count, quality_per_cost, last_recomputed
	FROM performance_summaries`

// scanSummary scans a single summary row
func (r *PerformanceRepository) scanSummary(row *sql.Row) (*models.PerformanceSummary, error) {
	summary := &models.PerformanceSummary{}
	err := row.Scan(
		&summary.ModelName,
		&summary.Category,
		&summary.MeanQuality,
		&summary.MeanCost,
		&summary.MeanLatency,
		&summary.MeanThroughput,
		&summary.SampleCount,
		&summary.QualityPerCost,
		&summary.LastRecomputed,
	)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
