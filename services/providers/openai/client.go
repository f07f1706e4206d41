// Package openai implements the providers.Provider interface against the
// OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upb/llm-value-router/config"
	"github.com/upb/llm-value-router/services/providers"
)

const providerName = "openai"

func init() {
	providers.RegisterFactory(providers.ProviderOpenAI, func(model string, cfg config.ProviderConfig) providers.Provider {
		return NewClient(model, cfg)
	})
}

// Client calls the OpenAI chat completions API for one model
type Client struct {
	model      string
	config     config.ProviderConfig
	httpClient *http.Client
}

// NewClient creates a new OpenAI client bound to one model
func NewClient(model string, cfg config.ProviderConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		model:  model,
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

// Model returns the model identifier this client generates with
func (c *Client) Model() string {
	return c.model
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate performs a chat completion and returns full accounting
func (c *Client) Generate(ctx context.Context, prompt string, opts providers.GenerationOptions) (*providers.GenerationResult, error) {
	started := time.Now()

	reqBody, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, providers.NewProviderError(providerName, "MARSHAL_ERROR", "failed to marshal request", 0, false, err)
	}

	respBody, statusCode, err := c.doWithRetry(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	if statusCode != http.StatusOK {
		return nil, c.handleErrorResponse(statusCode, respBody)
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, providers.NewProviderError(providerName, "UNMARSHAL_ERROR", "failed to unmarshal response", statusCode, false, err)
	}

	if len(resp.Choices) == 0 {
		return nil, providers.NewProviderError(providerName, "EMPTY_RESPONSE", "response contained no choices", statusCode, false, nil)
	}

	text := resp.Choices[0].Message.Content
	inputTokens := resp.Usage.PromptTokens
	outputTokens := resp.Usage.CompletionTokens
	if inputTokens == 0 {
		inputTokens = providers.EstimateTokens(prompt)
	}
	if outputTokens == 0 {
		outputTokens = providers.EstimateTokens(text)
	}

	return providers.BuildResult(c.model, text, inputTokens, outputTokens, started, nil, map[string]string{
		"provider":      providerName,
		"response_id":   resp.ID,
		"finish_reason": resp.Choices[0].FinishReason,
	}), nil
}

// doWithRetry executes the request, retrying on transport errors and 5xx
func (c *Client) doWithRetry(ctx context.Context, reqBody []byte) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, 0, providers.NewProviderError(providerName, "CANCELLED", "request cancelled", 0, false, ctx.Err())
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			return nil, 0, providers.NewProviderError(providerName, "REQUEST_ERROR", "failed to create request", 0, false, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if err != nil {
			return nil, httpResp.StatusCode, providers.NewProviderError(providerName, "READ_ERROR", "failed to read response", httpResp.StatusCode, false, err)
		}

		if httpResp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: status %d", httpResp.StatusCode)
			continue
		}

		return respBody, httpResp.StatusCode, nil
	}

	return nil, 0, providers.NewProviderError(providerName, "HTTP_ERROR", "HTTP request failed", 0, true, lastErr)
}

// handleErrorResponse converts a non-200 response into a ProviderError
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	message := fmt.Sprintf("request failed with status %d", statusCode)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	retryable := statusCode == http.StatusTooManyRequests
	return providers.NewProviderError(providerName, "API_ERROR", message, statusCode, retryable, nil)
}
