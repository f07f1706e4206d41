package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
	"github.com/upb/llm-value-router/services/router"
	"github.com/upb/llm-value-router/utils"
)

// RouteRequest represents a routing request
type RouteRequest struct {
	Prompt           string   `json:"prompt" validate:"required"`
	QualityThreshold *float64 `json:"quality_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	Category         *string  `json:"category,omitempty" validate:"omitempty,oneof=coding summarization creative_writing reasoning factual"`
	MaxCost          *float64 `json:"max_cost,omitempty" validate:"omitempty,gte=0"`
}

// RouteResponse represents the routing decision returned to the caller
type RouteResponse struct {
	SelectedModel string            `json:"selected_model"`
	Reasoning     string            `json:"reasoning"`
	Fallback      bool              `json:"fallback"`
	Metadata      *router.Selection `json:"metadata"`
}

// ModelSelector defines the interface for routing decisions
type ModelSelector interface {
	SelectModel(ctx context.Context, constraints router.Constraints) (*router.Selection, error)
}

// RouteHandler handles routing HTTP requests
type RouteHandler struct {
	selector ModelSelector
	logger   *zap.Logger
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(selector ModelSelector, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		selector: selector,
		logger:   logger,
	}
}

// HandleRoute handles POST /api/v1/route
func (h *RouteHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	constraints := router.Constraints{
		Threshold: req.QualityThreshold,
		MaxCost:   req.MaxCost,
	}
	if req.Category != nil {
		category := models.PromptCategory(*req.Category)
		constraints.Category = &category
	}

	selection, err := h.selector.SelectModel(r.Context(), constraints)
	if err != nil {
		HandleInternalError(w, err, h.logger)
		return
	}

	response := RouteResponse{
		SelectedModel: selection.ModelName,
		Reasoning:     selection.Reasoning,
		Fallback:      selection.Fallback,
		Metadata:      selection,
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
