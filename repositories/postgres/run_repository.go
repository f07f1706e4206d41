package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
	"go.uber.org/zap"
)

// RunRepository implements the repositories.RunRepository interface
type RunRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRunRepository creates a new benchmark run repository
func NewRunRepository(db *DB, logger *zap.Logger) repositories.RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new benchmark run
func (r *RunRepository) Create(ctx context.Context, run *models.BenchmarkRun) error {
	query := `
		INSERT INTO benchmark_runs (id, started_at, completed_at, status, total_prompts)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.CompletedAt,
		run.Status,
		run.TotalPrompts,
	)

	if err != nil {
		return fmt.Errorf("failed to create benchmark run: %w", err)
	}

	r.logger.Debug("benchmark run created",
		zap.String("id", run.ID.String()),
		zap.Int("total_prompts", run.TotalPrompts))
	return nil
}

// GetByID retrieves a run by ID
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BenchmarkRun, error) {
	query := `
		SELECT id, started_at, completed_at, status, total_prompts
		FROM benchmark_runs
		WHERE id = $1
	`

	run := &models.BenchmarkRun{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.StartedAt,
		&run.CompletedAt,
		&run.Status,
		&run.TotalPrompts,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("benchmark run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get benchmark run: %w", err)
	}

	return run, nil
}

// Complete marks a run as completed. This is the only mutation a run row
// ever receives after creation.
func (r *RunRepository) Complete(ctx context.Context, run *models.BenchmarkRun) error {
	query := `
		UPDATE benchmark_runs
		SET status = $2, completed_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, run.ID, run.Status, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to complete benchmark run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("benchmark run not found: %s", run.ID)
	}

	r.logger.Debug("benchmark run completed", zap.String("id", run.ID.String()))
	return nil
}

// List retrieves the most recent runs
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.BenchmarkRun, error) {
	query := `
		SELECT id, started_at, completed_at, status, total_prompts
		FROM benchmark_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BenchmarkRun
	for rows.Next() {
		run := &models.BenchmarkRun{}
		err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.CompletedAt,
			&run.Status,
			&run.TotalPrompts,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan benchmark run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark run rows: %w", err)
	}

	return runs, nil
}
