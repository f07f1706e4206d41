// Package benchmark runs evaluation sweeps across every registered model.
package benchmark

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/prompts"
	"github.com/upb/llm-value-router/repositories"
	"github.com/upb/llm-value-router/services/judge"
	"github.com/upb/llm-value-router/services/providers"
)

// Recomputer rebuilds the performance summary cache after a sweep
type Recomputer interface {
	RecomputeAll(ctx context.Context) (int, error)
}

// Orchestrator fans a prompt set out across every registered model, judges
// each response, and persists one result row per evaluation. One worker per
// model; each worker walks its prompts and turns sequentially so turn
// ordering inside one model stays stable.
type Orchestrator struct {
	registry   *providers.Registry
	judge      *judge.Judge
	repos      *repositories.Repositories
	aggregator Recomputer
	config     config.BenchmarkConfig
	logger     *zap.Logger
}

// NewOrchestrator creates a new benchmark Orchestrator
func NewOrchestrator(
	registry *providers.Registry,
	j *judge.Judge,
	repos *repositories.Repositories,
	aggregator Recomputer,
	cfg config.BenchmarkConfig,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		judge:      j,
		repos:      repos,
		aggregator: aggregator,
		config:     cfg,
		logger:     logger,
	}
}

// PrepareRun validates the prompt set and persists a new run record. The
// recorded total is advisory; the actual row count can fall short when
// workers hit persistent storage failures.
func (o *Orchestrator) PrepareRun(ctx context.Context, set *prompts.Set, includeFollowUps bool) (*models.BenchmarkRun, error) {
	if o.registry.Len() == 0 {
		return nil, fmt.Errorf("no models registered")
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt set: %w", err)
	}

	totalPrompts := set.TotalEvaluations(includeFollowUps) * o.registry.Len()

	run := models.NewBenchmarkRun(totalPrompts)
	if err := o.repos.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create benchmark run: %w", err)
	}
	return run, nil
}

// Execute sweeps the prompt set across all registered models for a prepared
// run, completes the run record, and triggers a full summary recompute.
// Individual evaluation failures become error rows and never abort the
// sweep; only storage and bookkeeping failures surface as errors.
func (o *Orchestrator) Execute(ctx context.Context, run *models.BenchmarkRun, set *prompts.Set, includeFollowUps bool) error {
	modelNames := o.registry.Models()

	o.logger.Info("benchmark run started",
		zap.String("run_id", run.ID.String()),
		zap.Int("models", len(modelNames)),
		zap.Int("total_prompts", run.TotalPrompts))

	g, gctx := errgroup.WithContext(ctx)
	for _, modelName := range modelNames {
		client, err := o.registry.Get(modelName)
		if err != nil {
			return fmt.Errorf("failed to resolve model %s: %w", modelName, err)
		}
		g.Go(func() error {
			o.benchmarkModel(gctx, run.ID, client, set, includeFollowUps)
			return nil
		})
	}
	// Workers never return errors, but Wait still synchronizes completion
	_ = g.Wait()

	run.MarkCompleted()
	if err := o.repos.Runs.Complete(ctx, run); err != nil {
		return fmt.Errorf("failed to complete benchmark run: %w", err)
	}

	written, err := o.aggregator.RecomputeAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute summaries: %w", err)
	}

	o.logger.Info("benchmark run completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("summaries_written", written))
	return nil
}

// RunBenchmark prepares and executes a sweep in one call
func (o *Orchestrator) RunBenchmark(ctx context.Context, set *prompts.Set, includeFollowUps bool) (*models.BenchmarkRun, error) {
	run, err := o.PrepareRun(ctx, set, includeFollowUps)
	if err != nil {
		return nil, err
	}
	if err := o.Execute(ctx, run, set, includeFollowUps); err != nil {
		return nil, err
	}
	return run, nil
}

// benchmarkModel evaluates every prompt and follow-up turn for one model
func (o *Orchestrator) benchmarkModel(ctx context.Context, runID uuid.UUID, client providers.Provider, set *prompts.Set, includeFollowUps bool) {
	o.logger.Info("model sweep started", zap.String("model", client.Model()))

	for _, prompt := range set.Prompts {
		o.benchmarkPrompt(ctx, runID, client, prompt, prompt.Text, 1)

		if !includeFollowUps {
			continue
		}
		for i, followUp := range prompt.FollowUps {
			o.benchmarkPrompt(ctx, runID, client, prompt, followUp, i+2)
		}
	}

	o.logger.Info("model sweep completed", zap.String("model", client.Model()))
}

// benchmarkPrompt generates, judges and persists one evaluation. A generation
// failure is recorded as an error row with zeroed metrics so the failure rate
// stays auditable.
func (o *Orchestrator) benchmarkPrompt(ctx context.Context, runID uuid.UUID, client providers.Provider, prompt prompts.Prompt, text string, turn int) {
	generation, err := client.Generate(ctx, text, providers.GenerationOptions{
		MaxTokens: o.config.MaxTokens,
	})
	if err != nil {
		o.logger.Warn("generation failed",
			zap.String("model", client.Model()),
			zap.String("prompt_id", prompt.ID),
			zap.Int("turn", turn),
			zap.Error(err))
		o.saveResult(ctx, models.NewErrorResult(runID, client.Model(), client.Name(), prompt.ID, text, prompt.Category, turn, err.Error()))
		return
	}

	evaluation := o.judge.Evaluate(ctx, text, generation.Text, prompt.Category)

	result := models.NewEvaluationResult(runID, client.Model(), client.Name(), prompt.ID, text, prompt.Category, turn)
	result.SetResponse(generation.Text, evaluation.Score, evaluation.Reasoning)
	result.SetGeneration(
		generation.InputTokens,
		generation.OutputTokens,
		generation.TotalCost,
		generation.TimeToFirstToken,
		generation.TotalLatency,
		generation.TokensPerSecond,
		generation.Metadata,
	)
	o.saveResult(ctx, result)

	o.logger.Info("evaluation recorded",
		zap.String("model", client.Model()),
		zap.String("prompt_id", prompt.ID),
		zap.Int("turn", turn),
		zap.Float64("score", evaluation.Score),
		zap.Float64("cost", generation.TotalCost),
		zap.Float64("latency", generation.TotalLatency))
}

// saveResult persists one row, logging rather than propagating failures so a
// transient storage error costs exactly one row
func (o *Orchestrator) saveResult(ctx context.Context, result *models.EvaluationResult) {
	if err := o.repos.Results.Create(ctx, result); err != nil {
		o.logger.Error("failed to persist evaluation result",
			zap.String("model", result.ModelName),
			zap.String("prompt_id", result.PromptID),
			zap.Error(err))
	}
}
