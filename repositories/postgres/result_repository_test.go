package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
	"go.uber.org/zap"
)

func TestResultRepositoryCreate(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewResultRepository(db, zap.NewNop())

	t.Run("successful evaluation row", func(t *testing.T) {
		result := models.NewEvaluationResult(uuid.New(), "gpt-4o", "openai", "code_001", "Write a function", models.CategoryCoding, 1)
		result.SetResponse("def foo(): pass", 0.85, "Correct")
		result.SetGeneration(120, 80, 0.0031, nil, 1.5, 53.3, map[string]string{"provider": "openai"})

		mock.ExpectExec("INSERT INTO evaluation_results").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), result))
	})

	t.Run("error row with nil metadata", func(t *testing.T) {
		result := models.NewErrorResult(uuid.New(), "gpt-4o", "openai", "code_001", "Write a function", models.CategoryCoding, 1, "connection refused")

		mock.ExpectExec("INSERT INTO evaluation_results").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), result))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryList(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewResultRepository(db, zap.NewNop())

	resultColumns := []string{
		"id", "run_id", "model_name", "provider", "prompt_id", "prompt_text",
		"prompt_category", "turn_number", "response_text", "quality_score",
		"judge_reasoning", "input_tokens", "output_tokens", "total_cost",
		"time_to_first_token", "total_latency", "tokens_per_second",
		"raw_metadata", "timestamp", "error_message",
	}

	t.Run("filter by model and category", func(t *testing.T) {
		rows := sqlmock.NewRows(resultColumns).
			AddRow(uuid.New(), uuid.New(), "gpt-4o", "openai", "code_001", "Write a function",
				"coding", 1, "def foo(): pass", 0.85,
				"Correct", 120, 80, 0.0031,
				nil, 1.5, 53.3,
				`{"provider":"openai"}`, time.Now().UTC(), nil)

		mock.ExpectQuery("SELECT id, run_id, model_name").
			WithArgs("gpt-4o", "coding", 50).
			WillReturnRows(rows)

		results, err := repo.List(context.Background(), repositories.ResultFilter{
			ModelName: "gpt-4o",
			Category:  models.CategoryCoding,
			Limit:     50,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "gpt-4o", results[0].ModelName)
		assert.Equal(t, 0.85, results[0].Score())
		assert.JSONEq(t, `{"provider":"openai"}`, string(results[0].RawMetadata))
	})

	t.Run("default limit applied", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, run_id, model_name").
			WithArgs(1000).
			WillReturnRows(sqlmock.NewRows(resultColumns))

		results, err := repo.List(context.Background(), repositories.ResultFilter{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryDistinctModelCategories(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewResultRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"model_name", "prompt_category"}).
		AddRow("claude-3-haiku", "coding").
		AddRow("gpt-4o", "coding").
		AddRow("gpt-4o", "factual")

	mock.ExpectQuery("SELECT DISTINCT model_name, prompt_category").
		WillReturnRows(rows)

	pairs, err := repo.DistinctModelCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, repositories.ModelCategory{ModelName: "claude-3-haiku", Category: models.CategoryCoding}, pairs[0])
	assert.Equal(t, repositories.ModelCategory{ModelName: "gpt-4o", Category: models.CategoryFactual}, pairs[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryAggregate(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewResultRepository(db, zap.NewNop())

	aggColumns := []string{"mean_quality", "mean_cost", "mean_latency", "mean_throughput", "sample_count"}

	t.Run("with rows", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("gpt-4o", "coding").
			WillReturnRows(sqlmock.NewRows(aggColumns).AddRow(0.8, 0.02, 1.5, 42.0, 3))

		agg, err := repo.Aggregate(context.Background(), "gpt-4o", models.CategoryCoding)
		require.NoError(t, err)
		require.NotNil(t, agg.MeanQuality)
		require.NotNil(t, agg.MeanCost)
		assert.Equal(t, 0.8, *agg.MeanQuality)
		assert.Equal(t, 0.02, *agg.MeanCost)
		assert.Equal(t, 1.5, agg.MeanLatency)
		assert.Equal(t, 3, agg.SampleCount)
	})

	t.Run("no rows yields nil means", func(t *testing.T) {
		mock.ExpectQuery("SELECT").
			WithArgs("gpt-4o", "reasoning").
			WillReturnRows(sqlmock.NewRows(aggColumns).AddRow(nil, nil, 0.0, 0.0, 0))

		agg, err := repo.Aggregate(context.Background(), "gpt-4o", models.CategoryReasoning)
		require.NoError(t, err)
		assert.Nil(t, agg.MeanQuality)
		assert.Nil(t, agg.MeanCost)
		assert.Equal(t, 0, agg.SampleCount)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
