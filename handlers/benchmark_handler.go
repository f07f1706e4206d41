package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/prompts"
	"github.com/upb/llm-value-router/utils"
)

// BenchmarkRunRequest represents a benchmark trigger request
type BenchmarkRunRequest struct {
	IncludeFollowUps *bool  `json:"include_follow_ups,omitempty"`
	PromptSetFile    string `json:"prompt_set_file,omitempty"`
}

// BenchmarkRunResponse represents the accepted benchmark run
type BenchmarkRunResponse struct {
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
	TotalPrompts int    `json:"total_prompts"`
}

// SweepRunner defines the interface for benchmark sweep operations
type SweepRunner interface {
	PrepareRun(ctx context.Context, set *prompts.Set, includeFollowUps bool) (*models.BenchmarkRun, error)
	Execute(ctx context.Context, run *models.BenchmarkRun, set *prompts.Set, includeFollowUps bool) error
}

// RunLister defines the interface for benchmark run listing
type RunLister interface {
	List(ctx context.Context, limit int) ([]*models.BenchmarkRun, error)
}

// BenchmarkHandler handles benchmark HTTP requests
type BenchmarkHandler struct {
	runner   SweepRunner
	runs     RunLister
	defaults *prompts.Set
	logger   *zap.Logger
}

// NewBenchmarkHandler creates a new BenchmarkHandler
func NewBenchmarkHandler(runner SweepRunner, runs RunLister, defaults *prompts.Set, logger *zap.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		runner:   runner,
		runs:     runs,
		defaults: defaults,
		logger:   logger,
	}
}

// HandleRun handles POST /api/v1/benchmark/run. The run record is created
// synchronously so the response carries its id; the sweep itself proceeds in
// the background detached from the request context.
func (h *BenchmarkHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	req := BenchmarkRunRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("failed to parse request body", zap.Error(err))
			_ = utils.WriteBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	includeFollowUps := true
	if req.IncludeFollowUps != nil {
		includeFollowUps = *req.IncludeFollowUps
	}

	set := h.defaults
	if req.PromptSetFile != "" {
		loaded, err := prompts.LoadFile(req.PromptSetFile)
		if err != nil {
			h.logger.Warn("failed to load prompt set", zap.String("file", req.PromptSetFile), zap.Error(err))
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		set = loaded
	}

	run, err := h.runner.PrepareRun(r.Context(), set, includeFollowUps)
	if err != nil {
		h.logger.Error("failed to prepare benchmark run", zap.Error(err))
		_ = utils.WriteConflict(w, err.Error(), nil)
		return
	}

	go func() {
		if err := h.runner.Execute(context.Background(), run, set, includeFollowUps); err != nil {
			h.logger.Error("benchmark sweep failed",
				zap.String("run_id", run.ID.String()),
				zap.Error(err))
		}
	}()

	response := BenchmarkRunResponse{
		RunID:        run.ID.String(),
		Status:       string(run.Status),
		TotalPrompts: run.TotalPrompts,
	}

	if err := utils.WriteAccepted(w, response); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// HandleListRuns handles GET /api/v1/benchmark/runs
func (h *BenchmarkHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"), 20)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		HandleInternalError(w, err, h.logger)
		return
	}
	if runs == nil {
		runs = []*models.BenchmarkRun{}
	}

	if err := utils.WriteOK(w, runs); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
