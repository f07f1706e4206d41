package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/utils"
)

// EfficiencyResponse represents the efficiency frontier response
type EfficiencyResponse struct {
	Category *string                      `json:"category"`
	Models   []*models.PerformanceSummary `json:"models"`
}

// FrontierProvider defines the interface for efficiency frontier queries
type FrontierProvider interface {
	EfficiencyFrontier(ctx context.Context, category *models.PromptCategory) ([]*models.PerformanceSummary, error)
}

// EfficiencyHandler handles efficiency frontier HTTP requests
type EfficiencyHandler struct {
	frontier FrontierProvider
	logger   *zap.Logger
}

// NewEfficiencyHandler creates a new EfficiencyHandler
func NewEfficiencyHandler(frontier FrontierProvider, logger *zap.Logger) *EfficiencyHandler {
	return &EfficiencyHandler{
		frontier: frontier,
		logger:   logger,
	}
}

// HandleEfficiency handles GET /api/v1/models/efficiency
func (h *EfficiencyHandler) HandleEfficiency(w http.ResponseWriter, r *http.Request) {
	var categoryParam *string
	var category *models.PromptCategory

	if raw := r.URL.Query().Get("category"); raw != "" {
		if err := validateCategory(raw); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}
		categoryParam = &raw
		c := models.PromptCategory(raw)
		category = &c
	}

	frontier, err := h.frontier.EfficiencyFrontier(r.Context(), category)
	if err != nil {
		HandleInternalError(w, err, h.logger)
		return
	}
	if frontier == nil {
		frontier = []*models.PerformanceSummary{}
	}

	response := EfficiencyResponse{
		Category: categoryParam,
		Models:   frontier,
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
