package handlers

import (
	"fmt"
	"strconv"

	"github.com/upb/llm-value-router/models"
)

// validateCategory checks a category query parameter against the known set
func validateCategory(raw string) error {
	switch models.PromptCategory(raw) {
	case models.CategoryCoding, models.CategorySummarization,
		models.CategoryCreativeWriting, models.CategoryReasoning,
		models.CategoryFactual:
		return nil
	default:
		return fmt.Errorf("unknown category %q", raw)
	}
}

// parseLimit parses a limit query parameter, returning fallback when absent
func parseLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}
