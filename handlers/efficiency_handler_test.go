package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/llm-value-router/models"
)

type fakeFrontier struct {
	summaries    []*models.PerformanceSummary
	err          error
	lastCategory *models.PromptCategory
}

func (f *fakeFrontier) EfficiencyFrontier(ctx context.Context, category *models.PromptCategory) ([]*models.PerformanceSummary, error) {
	f.lastCategory = category
	return f.summaries, f.err
}

func TestHandleEfficiency(t *testing.T) {
	t.Run("returns frontier", func(t *testing.T) {
		frontier := &fakeFrontier{summaries: []*models.PerformanceSummary{
			{ModelName: "gpt-4o-mini", Category: models.CategoryCoding, QualityPerCost: 150.0},
			{ModelName: "gpt-4o", Category: models.CategoryCoding, QualityPerCost: 40.0},
		}}
		h := NewEfficiencyHandler(frontier, zap.NewNop())

		req := httptest.NewRequest("GET", "/api/v1/models/efficiency", nil)
		rec := httptest.NewRecorder()
		h.HandleEfficiency(rec, req)

		assert.Equal(t, 200, rec.Code)

		var body struct {
			Data EfficiencyResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data.Models, 2)
		assert.Equal(t, "gpt-4o-mini", body.Data.Models[0].ModelName)
		assert.Nil(t, body.Data.Category)
		assert.Nil(t, frontier.lastCategory)
	})

	t.Run("category filter passes through", func(t *testing.T) {
		frontier := &fakeFrontier{}
		h := NewEfficiencyHandler(frontier, zap.NewNop())

		req := httptest.NewRequest("GET", "/api/v1/models/efficiency?category=reasoning", nil)
		rec := httptest.NewRecorder()
		h.HandleEfficiency(rec, req)

		assert.Equal(t, 200, rec.Code)
		require.NotNil(t, frontier.lastCategory)
		assert.Equal(t, models.CategoryReasoning, *frontier.lastCategory)
	})

	t.Run("empty frontier returns empty list", func(t *testing.T) {
		h := NewEfficiencyHandler(&fakeFrontier{}, zap.NewNop())

		req := httptest.NewRequest("GET", "/api/v1/models/efficiency", nil)
		rec := httptest.NewRecorder()
		h.HandleEfficiency(rec, req)

		assert.Equal(t, 200, rec.Code)
		assert.Contains(t, rec.Body.String(), `"models":[]`)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		h := NewEfficiencyHandler(&fakeFrontier{}, zap.NewNop())

		req := httptest.NewRequest("GET", "/api/v1/models/efficiency?category=poetry", nil)
		rec := httptest.NewRecorder()
		h.HandleEfficiency(rec, req)

		assert.Equal(t, 400, rec.Code)
	})

	t.Run("query failure maps to 500", func(t *testing.T) {
		h := NewEfficiencyHandler(&fakeFrontier{err: assert.AnError}, zap.NewNop())

		req := httptest.NewRequest("GET", "/api/v1/models/efficiency", nil)
		rec := httptest.NewRecorder()
		h.HandleEfficiency(rec, req)

		assert.Equal(t, 500, rec.Code)
	})
}
