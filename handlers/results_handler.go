package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/repositories"
	"github.com/upb/llm-value-router/utils"
)

// ResultLister defines the interface for evaluation result queries
type ResultLister interface {
	List(ctx context.Context, filter repositories.ResultFilter) ([]*models.EvaluationResult, error)
}

// ResultsHandler handles evaluation result HTTP requests
type ResultsHandler struct {
	results ResultLister
	logger  *zap.Logger
}

// NewResultsHandler creates a new ResultsHandler
func NewResultsHandler(results ResultLister, logger *zap.Logger) *ResultsHandler {
	return &ResultsHandler{
		results: results,
		logger:  logger,
	}
}

// HandleList handles GET /api/v1/results
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.ResultFilter{
		ModelName: query.Get("model"),
	}

	if raw := query.Get("category"); raw != "" {
		if err := validateCategory(raw); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		filter.Category = models.PromptCategory(raw)
	}

	if raw := query.Get("run_id"); raw != "" {
		runID, err := uuid.Parse(raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "run_id must be a valid UUID", nil)
			return
		}
		filter.RunID = &runID
	}

	limit, err := parseLimit(query.Get("limit"), 100)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	filter.Limit = limit

	results, err := h.results.List(r.Context(), filter)
	if err != nil {
		HandleInternalError(w, err, h.logger)
		return
	}
	if results == nil {
		results = []*models.EvaluationResult{}
	}

	if err := utils.WriteOK(w, results); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
