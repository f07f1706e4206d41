package prompts

import "github.com/upb/llm-value-router/models"

// DefaultSet returns the built-in benchmark prompt set used when no custom
// set file is configured. Each prompt carries two follow-ups so multi-turn
// behavior is exercised by default.
func DefaultSet() *Set {
	return &Set{Prompts: []Prompt{
		// Coding
		{
			ID:       "code_001",
			Category: models.CategoryCoding,
			Text:     "Write a Python function that implements binary search on a sorted array.",
			FollowUps: []string{
				"Now modify it to handle duplicate elements and return all indices.",
				"Add error handling and input validation.",
			},
		},
		{
			ID:       "code_002",
			Category: models.CategoryCoding,
			Text:     "Implement an LRU cache in Python with O(1) get and put operations.",
			FollowUps: []string{
				"Add thread-safety to the implementation.",
				"Extend it to support TTL (time-to-live) for cache entries.",
			},
		},
		{
			ID:       "code_003",
			Category: models.CategoryCoding,
			Text:     "Create a SQL query to find the top 10 customers by total purchase amount.",
			FollowUps: []string{
				"Modify it to include customers who made purchases in the last 30 days only.",
				"Add a column showing the percentage contribution of each customer.",
			},
		},
		// Summarization
		{
			ID:       "summ_001",
			Category: models.CategorySummarization,
			Text:     "Summarize the key points of quantum computing for a business executive in 3 paragraphs.",
			FollowUps: []string{
				"Now explain the potential business applications.",
				"What are the main risks and challenges?",
			},
		},
		{
			ID:       "summ_002",
			Category: models.CategorySummarization,
			Text:     "Summarize the main features of the transformer architecture in machine learning.",
			FollowUps: []string{
				"Explain the attention mechanism in simple terms.",
				"What are the advantages over RNNs?",
			},
		},
		// Creative writing
		{
			ID:       "creative_001",
			Category: models.CategoryCreativeWriting,
			Text:     "Write a short story opening about a lighthouse keeper who discovers something unusual.",
			FollowUps: []string{
				"Continue the story, introducing a second character.",
				"Write a closing paragraph that resolves the mystery.",
			},
		},
		// Reasoning
		{
			ID:       "reason_001",
			Category: models.CategoryReasoning,
			Text:     "A farmer needs to cross a river with a wolf, a goat, and a cabbage. The boat holds the farmer plus one item. How does everything cross safely?",
			FollowUps: []string{
				"Explain why no shorter sequence of crossings works.",
				"Generalize: what property of the items makes this puzzle solvable?",
			},
		},
		// Factual
		{
			ID:       "fact_001",
			Category: models.CategoryFactual,
			Text:     "Explain the difference between TCP and UDP, including when each is preferred.",
			FollowUps: []string{
				"How does TCP congestion control work at a high level?",
				"Why do video calls typically use UDP?",
			},
		},
	}}
}
