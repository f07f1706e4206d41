package postgres

import (
	"context"
	"fmt"
)

// schemaDDL bootstraps the three benchmark tables. Statements are idempotent
// so startup can run them unconditionally.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS benchmark_runs (
	id UUID PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	status VARCHAR(50) NOT NULL DEFAULT 'running',
	total_prompts INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS evaluation_results (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES benchmark_runs(id),
	model_name VARCHAR(100) NOT NULL,
	provider VARCHAR(50) NOT NULL,
	prompt_id VARCHAR(100) NOT NULL,
	prompt_text TEXT NOT NULL,
	prompt_category VARCHAR(50) NOT NULL,
	turn_number INTEGER NOT NULL DEFAULT 1,
	response_text TEXT,
	quality_score DOUBLE PRECISION,
	judge_reasoning TEXT,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	total_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	time_to_first_token DOUBLE PRECISION,
	total_latency DOUBLE PRECISION NOT NULL DEFAULT 0,
	tokens_per_second DOUBLE PRECISION NOT NULL DEFAULT 0,
	raw_metadata JSONB,
	timestamp TIMESTAMPTZ NOT NULL,
	error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_evaluation_results_model ON evaluation_results(model_name);
CREATE INDEX IF NOT EXISTS idx_evaluation_results_category ON evaluation_results(prompt_category);
CREATE INDEX IF NOT EXISTS idx_evaluation_results_timestamp ON evaluation_results(timestamp);

CREATE TABLE IF NOT EXISTS performance_summaries (
	model_name VARCHAR(100) NOT NULL,
	category VARCHAR(50) NOT NULL,
	mean_quality DOUBLE PRECISION NOT NULL,
	mean_cost DOUBLE PRECISION NOT NULL,
	mean_latency DOUBLE PRECISION NOT NULL,
	mean_throughput DOUBLE PRECISION NOT NULL,
	sample_count INTEGER NOT NULL DEFAULT 0,
	quality_per_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_recomputed TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (model_name, category)
);
`

// InitSchema creates the benchmark tables if they do not exist
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized")
	return nil
}
