package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of a benchmark run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// BenchmarkRun represents one complete benchmark sweep execution
type BenchmarkRun struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status       RunStatus  `json:"status" db:"status"`
	TotalPrompts int        `json:"total_prompts" db:"total_prompts"`
}

// TableName returns the table name for the BenchmarkRun model
func (BenchmarkRun) TableName() string {
	return "benchmark_runs"
}

// NewBenchmarkRun creates a new BenchmarkRun in running status.
// totalPrompts is the expected evaluation count; it is advisory only and
// never used to gate the sweep.
func NewBenchmarkRun(totalPrompts int) *BenchmarkRun {
	return &BenchmarkRun{
		ID:           uuid.New(),
		StartedAt:    time.Now().UTC(),
		Status:       RunStatusRunning,
		TotalPrompts: totalPrompts,
	}
}

// MarkCompleted marks the run as completed with a completion timestamp
func (r *BenchmarkRun) MarkCompleted() {
	r.Status = RunStatusCompleted
	now := time.Now().UTC()
	r.CompletedAt = &now
}

// IsCompleted returns true once the run has finished
func (r *BenchmarkRun) IsCompleted() bool {
	return r.Status == RunStatusCompleted
}
