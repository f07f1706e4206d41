// Package prompts defines the benchmark prompt dataset and YAML loading for
// custom prompt sets.
package prompts

import (
	"fmt"
	"os"

	"github.com/upb/llm-value-router/models"
	"gopkg.in/yaml.v3"
)

// Prompt is a single benchmark prompt with optional multi-turn follow-ups
type Prompt struct {
	ID        string                `yaml:"id" json:"id"`
	Category  models.PromptCategory `yaml:"category" json:"category"`
	Text      string                `yaml:"prompt" json:"prompt"`
	FollowUps []string              `yaml:"follow_ups,omitempty" json:"follow_ups,omitempty"`
}

// Set is an ordered collection of benchmark prompts
type Set struct {
	Prompts []Prompt `yaml:"prompts" json:"prompts"`
}

// TotalEvaluations returns the number of evaluations one model performs over
// this set: one per base prompt, plus one per follow-up when enabled.
func (s *Set) TotalEvaluations(includeFollowUps bool) int {
	total := len(s.Prompts)
	if includeFollowUps {
		for _, p := range s.Prompts {
			total += len(p.FollowUps)
		}
	}
	return total
}

// Categories returns the distinct categories present in the set
func (s *Set) Categories() []models.PromptCategory {
	seen := make(map[models.PromptCategory]bool)
	var categories []models.PromptCategory
	for _, p := range s.Prompts {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// Validate checks the set for missing ids, empty prompts and unknown categories
func (s *Set) Validate() error {
	if len(s.Prompts) == 0 {
		return fmt.Errorf("prompt set is empty")
	}

	seen := make(map[string]bool)
	for i, p := range s.Prompts {
		if p.ID == "" {
			return fmt.Errorf("prompt %d: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate prompt id: %s", p.ID)
		}
		seen[p.ID] = true

		if p.Text == "" {
			return fmt.Errorf("prompt %s: text is required", p.ID)
		}

		switch p.Category {
		case models.CategoryCoding, models.CategorySummarization,
			models.CategoryCreativeWriting, models.CategoryReasoning,
			models.CategoryFactual:
		default:
			return fmt.Errorf("prompt %s: unknown category %q", p.ID, p.Category)
		}
	}

	return nil
}

// LoadFile loads and validates a prompt set from a YAML file
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt set: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt set: %w", err)
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt set %s: %w", path, err)
	}

	return &set, nil
}
