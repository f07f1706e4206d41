package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/llm-value-router/models"
)

func TestDefaultSetIsValid(t *testing.T) {
	set := DefaultSet()

	require.NoError(t, set.Validate())
	assert.NotEmpty(t, set.Prompts)
	assert.Len(t, set.Categories(), 5)
}

func TestTotalEvaluations(t *testing.T) {
	set := &Set{Prompts: []Prompt{
		{ID: "a", Category: models.CategoryCoding, Text: "x", FollowUps: []string{"f1", "f2"}},
		{ID: "b", Category: models.CategoryFactual, Text: "y", FollowUps: []string{"f1"}},
		{ID: "c", Category: models.CategoryFactual, Text: "z"},
	}}

	assert.Equal(t, 3, set.TotalEvaluations(false))
	assert.Equal(t, 6, set.TotalEvaluations(true))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr string
	}{
		{
			name:    "empty set",
			set:     Set{},
			wantErr: "empty",
		},
		{
			name: "missing id",
			set: Set{Prompts: []Prompt{
				{Category: models.CategoryCoding, Text: "x"},
			}},
			wantErr: "id is required",
		},
		{
			name: "duplicate id",
			set: Set{Prompts: []Prompt{
				{ID: "a", Category: models.CategoryCoding, Text: "x"},
				{ID: "a", Category: models.CategoryCoding, Text: "y"},
			}},
			wantErr: "duplicate",
		},
		{
			name: "unknown category",
			set: Set{Prompts: []Prompt{
				{ID: "a", Category: "poetry", Text: "x"},
			}},
			wantErr: "unknown category",
		},
		{
			name: "valid",
			set: Set{Prompts: []Prompt{
				{ID: "a", Category: models.CategoryCoding, Text: "x"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "set.yaml")
		content := `prompts:
  - id: code_001
    category: coding
    prompt: "Write a sorting function."
    follow_ups:
      - "Make it stable."
  - id: fact_001
    category: factual
    prompt: "What is DNS?"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		set, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, set.Prompts, 2)
		assert.Equal(t, models.CategoryCoding, set.Prompts[0].Category)
		assert.Equal(t, []string{"Make it stable."}, set.Prompts[0].FollowUps)
		assert.Equal(t, 3, set.TotalEvaluations(true))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("prompts: [unclosed"), 0o644))

		_, err := LoadFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid set", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("prompts: []"), 0o644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid prompt set")
	})
}
