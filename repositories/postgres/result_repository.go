package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
	"go.uber.org/zap"
)

// ResultRepository implements the repositories.ResultRepository interface
type ResultRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewResultRepository creates a new evaluation result repository
func NewResultRepository(db *DB, logger *zap.Logger) repositories.ResultRepository {
	return &ResultRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new evaluation result row. Rows are append-only and keyed
// by a fresh id, so concurrent inserts from independent sweep workers need
// no coordination.
func (r *ResultRepository) Create(ctx context.Context, result *models.EvaluationResult) error {
	query := `
		INSERT INTO evaluation_results (
			id, run_id, model_name, provider, prompt_id, prompt_text,
			prompt_category, turn_number, response_text, quality_score,
			judge_reasoning, input_tokens, output_tokens, total_cost,
			time_to_first_token, total_latency, tokens_per_second,
			raw_metadata, timestamp, error_message
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.RunID,
		result.ModelName,
		result.Provider,
		result.PromptID,
		result.PromptText,
		result.PromptCategory,
		result.TurnNumber,
		result.ResponseText,
		result.QualityScore,
		result.JudgeReasoning,
		result.InputTokens,
		result.OutputTokens,
		result.TotalCost,
		result.TimeToFirstToken,
		result.TotalLatency,
		result.TokensPerSecond,
		nullableJSON(result.RawMetadata),
		result.Timestamp,
		result.ErrorMessage,
	)

	if err != nil {
		return fmt.Errorf("failed to create evaluation result: %w", err)
	}

	r.logger.Debug("evaluation result created",
		zap.String("id", result.ID.String()),
		zap.String("model", result.ModelName),
		zap.String("prompt_id", result.PromptID),
		zap.Int("turn", result.TurnNumber))
	return nil
}

// List retrieves evaluation results matching the filter, newest first
func (r *ResultRepository) List(ctx context.Context, filter repositories.ResultFilter) ([]*models.EvaluationResult, error) {
	query := `
		SELECT id, run_id, model_name, provider, prompt_id, prompt_text,
		       prompt_category, turn_number, response_text, quality_score,
		       judge_reasoning, input_tokens, output_tokens, total_cost,
		       time_to_first_token, total_latency, tokens_per_second,
		       raw_metadata, timestamp, error_message
		FROM evaluation_results
		WHERE 1=1
	`

	var args []interface{}
	argn := 0

	if filter.ModelName != "" {
		argn++
		query += fmt.Sprintf(" AND model_name = $%d", argn)
		args = append(args, filter.ModelName)
	}
	if filter.Category != "" {
		argn++
		query += fmt.Sprintf(" AND prompt_category = $%d", argn)
		args = append(args, filter.Category)
	}
	if filter.RunID != nil {
		argn++
		query += fmt.Sprintf(" AND run_id = $%d", argn)
		args = append(args, *filter.RunID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	argn++
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", argn)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation results: %w", err)
	}
	defer rows.Close()

	var results []*models.EvaluationResult
	for rows.Next() {
		result := &models.EvaluationResult{}
		var rawMetadata sql.NullString
		err := rows.Scan(
			&result.ID,
			&result.RunID,
			&result.ModelName,
			&result.Provider,
			&result.PromptID,
			&result.PromptText,
			&result.PromptCategory,
			&result.TurnNumber,
			&result.ResponseText,
			&result.QualityScore,
			&result.JudgeReasoning,
			&result.InputTokens,
			&result.OutputTokens,
			&result.TotalCost,
			&result.TimeToFirstToken,
			&result.TotalLatency,
			&result.TokensPerSecond,
			&rawMetadata,
			&result.Timestamp,
			&result.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation result: %w", err)
		}
		if rawMetadata.Valid {
			result.RawMetadata = []byte(rawMetadata.String)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation result rows: %w", err)
	}

	return results, nil
}

// DistinctModelCategories enumerates every (model, category) pair present in
// the result store
func (r *ResultRepository) DistinctModelCategories(ctx context.Context) ([]repositories.ModelCategory, error) {
	query := `
		SELECT DISTINCT model_name, prompt_category
		FROM evaluation_results
		ORDER BY model_name, prompt_category
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct model categories: %w", err)
	}
	defer rows.Close()

	var pairs []repositories.ModelCategory
	for rows.Next() {
		var pair repositories.ModelCategory
		if err := rows.Scan(&pair.ModelName, &pair.Category); err != nil {
			return nil, fmt.Errorf("failed to scan model category pair: %w", err)
		}
		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model category rows: %w", err)
	}

	return pairs, nil
}

// Aggregate computes mean quality/cost/latency/throughput and the sample
// count over all result rows for one (model, category) pair
func (r *ResultRepository) Aggregate(ctx context.Context, modelName string, category models.PromptCategory) (*repositories.ResultAggregate, error) {
	query := `
		SELECT
			AVG(quality_score) AS mean_quality,
			AVG(total_cost) AS mean_cost,
			COALESCE(AVG(total_latency), 0) AS mean_latency,
			COALESCE(AVG(tokens_per_second), 0) AS mean_throughput,
			COUNT(*) AS sample_count
		FROM evaluation_results
		WHERE model_name = $1 AND prompt_category = $2
	`

	var meanQuality, meanCost sql.NullFloat64
	agg := &repositories.ResultAggregate{}

	err := r.db.QueryRowContext(ctx, query, modelName, category).Scan(
		&meanQuality,
		&meanCost,
		&agg.MeanLatency,
		&agg.MeanThroughput,
		&agg.SampleCount,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to aggregate evaluation results: %w", err)
	}

	if meanQuality.Valid {
		agg.MeanQuality = &meanQuality.Float64
	}
	if meanCost.Valid {
		agg.MeanCost = &meanCost.Float64
	}

	return agg, nil
}

// nullableJSON maps empty raw JSON to NULL so the jsonb column stays clean
func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
