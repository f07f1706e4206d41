package handlers

import (
	"net/http"

	"github.com/upb/llm-value-router/utils"
	"go.uber.org/zap"
)

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// HandleInternalError logs the error and writes a generic 500 response
func HandleInternalError(w http.ResponseWriter, err error, logger *zap.Logger) {
	logger.Error("internal server error", zap.Error(err))
	if err := utils.WriteInternalServerError(w, "An internal error occurred"); err != nil {
		logger.Error("failed to write internal error response", zap.Error(err))
	}
}
