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
	"go.uber.org/zap"
)

// newTestDB returns a DB backed by sqlmock
func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return &DB{DB: sqlDB, logger: zap.NewNop()}, mock
}

func TestRunRepositoryCreate(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRunRepository(db, zap.NewNop())

	run := models.NewBenchmarkRun(24)

	mock.ExpectExec("INSERT INTO benchmark_runs").
		WithArgs(run.ID, run.StartedAt, nil, string(models.RunStatusRunning), 24).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), run)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryGetByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRunRepository(db, zap.NewNop())

	id := uuid.New()
	started := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "started_at", "completed_at", "status", "total_prompts"}).
			AddRow(id, started, nil, "running", 24)

		mock.ExpectQuery("SELECT id, started_at, completed_at, status, total_prompts").
			WithArgs(id).
			WillReturnRows(rows)

		run, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, run.ID)
		assert.Equal(t, models.RunStatusRunning, run.Status)
		assert.Equal(t, 24, run.TotalPrompts)
		assert.Nil(t, run.CompletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, started_at, completed_at, status, total_prompts").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "completed_at", "status", "total_prompts"}))

		_, err := repo.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryComplete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRunRepository(db, zap.NewNop())

	run := models.NewBenchmarkRun(10)
	run.MarkCompleted()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE benchmark_runs").
			WithArgs(run.ID, string(models.RunStatusCompleted), *run.CompletedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Complete(context.Background(), run))
	})

	t.Run("missing run", func(t *testing.T) {
		mock.ExpectExec("UPDATE benchmark_runs").
			WithArgs(run.ID, string(models.RunStatusCompleted), *run.CompletedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Complete(context.Background(), run)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryList(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRunRepository(db, zap.NewNop())

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "started_at", "completed_at", "status", "total_prompts"}).
		AddRow(uuid.New(), now, now, "completed", 24).
		AddRow(uuid.New(), now.Add(-time.Hour), nil, "running", 12)

	mock.ExpectQuery("SELECT id, started_at, completed_at, status, total_prompts").
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, models.RunStatusCompleted, runs[0].Status)
	assert.Nil(t, runs[1].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
