// Package google implements the providers.Provider interface against the
// Gemini generateContent API.
package google

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

const providerName = "google"

func init() {
	providers.RegisterFactory(providers.ProviderGoogle, func(model string, cfg config.ProviderConfig) providers.Provider {
		return NewClient(model, cfg)
	})
}

// Client calls the Gemini generateContent API for one model
type Client struct {
	model      string
	config     config.ProviderConfig
	httpClient *http.Client
}

// NewClient creates a new Gemini client bound to one model
func NewClient(model string, cfg config.ProviderConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
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

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate performs a generateContent call and returns full accounting
func (c *Client) Generate(ctx context.Context, prompt string, opts providers.GenerationOptions) (*providers.GenerationResult, error) {
	started := time.Now()

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		},
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

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, providers.NewProviderError(providerName, "UNMARSHAL_ERROR", "failed to unmarshal response", statusCode, false, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, providers.NewProviderError(providerName, "EMPTY_RESPONSE", "response contained no candidates", statusCode, false, nil)
	}

	text := ""
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}

	inputTokens := resp.UsageMetadata.PromptTokenCount
	outputTokens := resp.UsageMetadata.CandidatesTokenCount
	if inputTokens == 0 {
		inputTokens = providers.EstimateTokens(prompt)
	}
	if outputTokens == 0 {
		outputTokens = providers.EstimateTokens(text)
	}

	return providers.BuildResult(c.model, text, inputTokens, outputTokens, started, nil, map[string]string{
		"provider":      providerName,
		"finish_reason": resp.Candidates[0].FinishReason,
	}), nil
}

// doWithRetry executes the request, retrying on transport errors and 5xx
func (c *Client) doWithRetry(ctx context.Context, reqBody []byte) ([]byte, int, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.config.BaseURL, c.model, c.config.APIKey)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, 0, providers.NewProviderError(providerName, "CANCELLED", "request cancelled", 0, false, ctx.Err())
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
		if err != nil {
			return nil, 0, providers.NewProviderError(providerName, "REQUEST_ERROR", "failed to create request", 0, false, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

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
