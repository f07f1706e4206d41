package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-value-router/models"
	"go.uber.org/zap"
)

var summaryColumns = []string{
	"model_name", "category", "mean_quality", "mean_cost", "mean_latency",
	"mean_throughput", "sample_count", "quality_per_cost", "last_recomputed",
}

func TestPerformanceRepositoryUpsert(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPerformanceRepository(db, zap.NewNop())

	summary := &models.PerformanceSummary{
		ModelName:      "gpt-4o",
		Category:       models.CategoryCoding,
		MeanQuality:    0.8,
		MeanCost:       0.02,
		MeanLatency:    1.5,
		MeanThroughput: 42.0,
		SampleCount:    3,
		QualityPerCost: 40.0,
		LastRecomputed: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO performance_summaries").
		WithArgs("gpt-4o", "coding", 0.8, 0.02, 1.5, 42.0, 3, 40.0, summary.LastRecomputed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), summary))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryGetByKey(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPerformanceRepository(db, zap.NewNop())

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(summaryColumns).
			AddRow("gpt-4o", "coding", 0.8, 0.02, 1.5, 42.0, 3, 40.0, time.Now().UTC())

		mock.ExpectQuery("SELECT model_name, category").
			WithArgs("gpt-4o", "coding").
			WillReturnRows(rows)

		summary, err := repo.GetByKey(context.Background(), "gpt-4o", models.CategoryCoding)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, 40.0, summary.QualityPerCost)
	})

	t.Run("missing key returns nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT model_name, category").
			WithArgs("gpt-4o", "factual").
			WillReturnRows(sqlmock.NewRows(summaryColumns))

		summary, err := repo.GetByKey(context.Background(), "gpt-4o", models.CategoryFactual)
		require.NoError(t, err)
		assert.Nil(t, summary)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryBestForThreshold(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPerformanceRepository(db, zap.NewNop())

	t.Run("with category filter", func(t *testing.T) {
		rows := sqlmock.NewRows(summaryColumns).
			AddRow("claude-3-haiku", "coding", 0.82, 0.004, 0.9, 60.0, 8, 205.0, time.Now().UTC())

		mock.ExpectQuery("SELECT model_name, category").
			WithArgs(0.8, "coding").
			WillReturnRows(rows)

		category := models.CategoryCoding
		summary, err := repo.BestForThreshold(context.Background(), 0.8, &category)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, "claude-3-haiku", summary.ModelName)
	})

	t.Run("without category filter", func(t *testing.T) {
		rows := sqlmock.NewRows(summaryColumns).
			AddRow("gpt-4o-mini", "factual", 0.81, 0.001, 0.7, 80.0, 12, 810.0, time.Now().UTC())

		mock.ExpectQuery("SELECT model_name, category").
			WithArgs(0.8).
			WillReturnRows(rows)

		summary, err := repo.BestForThreshold(context.Background(), 0.8, nil)
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, "gpt-4o-mini", summary.ModelName)
	})

	t.Run("no candidate returns nil without error", func(t *testing.T) {
		mock.ExpectQuery("SELECT model_name, category").
			WithArgs(0.95).
			WillReturnRows(sqlmock.NewRows(summaryColumns))

		summary, err := repo.BestForThreshold(context.Background(), 0.95, nil)
		require.NoError(t, err)
		assert.Nil(t, summary)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryFrontier(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPerformanceRepository(db, zap.NewNop())

	rows := sqlmock.NewRows(summaryColumns).
		AddRow("claude-3-haiku", "coding", 0.82, 0.004, 0.9, 60.0, 8, 205.0, time.Now().UTC()).
		AddRow("gpt-4o", "coding", 0.9, 0.02, 1.5, 42.0, 10, 45.0, time.Now().UTC())

	category := models.CategoryCoding
	mock.ExpectQuery("SELECT model_name, category").
		WithArgs(5, "coding").
		WillReturnRows(rows)

	summaries, err := repo.Frontier(context.Background(), &category, 5)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "claude-3-haiku", summaries[0].ModelName)
	assert.GreaterOrEqual(t, summaries[0].QualityPerCost, summaries[1].QualityPerCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}
