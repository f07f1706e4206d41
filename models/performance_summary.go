package models

import (
	"time"
)

// PerformanceSummary is the cached aggregate keyed by (model, category).
// It is derived entirely from EvaluationResult rows sharing the same key and
// fully replaced on every aggregator recompute, never updated incrementally.
type PerformanceSummary struct {
	ModelName       string         `json:"model_name" db:"model_name"`
	Category        PromptCategory `json:"category" db:"category"`
	MeanQuality     float64        `json:"mean_quality" db:"mean_quality"`
	MeanCost        float64        `json:"mean_cost" db:"mean_cost"`
	MeanLatency     float64        `json:"mean_latency" db:"mean_latency"`
	MeanThroughput  float64        `json:"mean_throughput" db:"mean_throughput"`
	SampleCount     int            `json:"sample_count" db:"sample_count"`
	QualityPerCost  float64        `json:"quality_per_cost" db:"quality_per_cost"`
	LastRecomputed  time.Time      `json:"last_recomputed" db:"last_recomputed"`
}

// TableName returns the table name for the PerformanceSummary model
func (PerformanceSummary) TableName() string {
	return "performance_summaries"
}

// ComputeRatio returns mean quality divided by mean cost.
// A zero mean cost yields 0 rather than +Inf so downstream comparisons stay
// total-ordered.
func ComputeRatio(meanQuality, meanCost float64) float64 {
	if meanCost <= 0 {
		return 0
	}
	return meanQuality / meanCost
}
