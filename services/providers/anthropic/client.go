// Package anthropic implements the providers.Provider interface against the
// Anthropic messages API.
package anthropic

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

const (
	providerName = "anthropic"
	apiVersion   = "2023-06-01"
)

func init() {
	providers.RegisterFactory(providers.ProviderAnthropic, func(model string, cfg config.ProviderConfig) providers.Provider {
		return NewClient(model, cfg)
	})
}

// Client calls the Anthropic messages API for one model
type Client struct {
	model      string
	config     config.ProviderConfig
	httpClient *http.Client
}

// NewClient creates a new Anthropic client bound to one model
func NewClient(model string, cfg config.ProviderConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
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

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs a messages call and returns full accounting
func (c *Client) Generate(ctx context.Context, prompt string, opts providers.GenerationOptions) (*providers.GenerationResult, error) {
	started := time.Now()

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024 // max_tokens is mandatory for this API
	}

	reqBody, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		Messages:    []message{{Role: "user", Content: prompt}},
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

	var resp messagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, providers.NewProviderError(providerName, "UNMARSHAL_ERROR", "failed to unmarshal response", statusCode, false, err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, providers.NewProviderError(providerName, "EMPTY_RESPONSE", "response contained no text blocks", statusCode, false, nil)
	}

	inputTokens := resp.Usage.InputTokens
	outputTokens := resp.Usage.OutputTokens
	if inputTokens == 0 {
		inputTokens = providers.EstimateTokens(prompt)
	}
	if outputTokens == 0 {
		outputTokens = providers.EstimateTokens(text)
	}

	return providers.BuildResult(c.model, text, inputTokens, outputTokens, started, nil, map[string]string{
		"provider":    providerName,
		"response_id": resp.ID,
		"stop_reason": resp.StopReason,
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

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/messages", bytes.NewReader(reqBody))
		if err != nil {
			return nil, 0, providers.NewProviderError(providerName, "REQUEST_ERROR", "failed to create request", 0, false, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", c.config.APIKey)
		httpReq.Header.Set("anthropic-version", apiVersion)

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

	retryable := statusCode == http.StatusTooManyRequests || statusCode == 529
	return providers.NewProviderError(providerName, "API_ERROR", message, statusCode, retryable, nil)
}
