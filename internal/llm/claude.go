// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the Anthropic model client shared by the decompose,
// extract, and synthesize stages. Rate-limited calls are retried with
// exponential backoff; every other provider error propagates immediately so
// each stage can apply its own fallback.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/backoff"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Client abstracts the model API so stages can be tested with canned
// responses.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrRateLimited is returned after the retry budget for HTTP 429 responses
// is exhausted.
var ErrRateLimited = errors.New("rate limited")

// apiURL is the Anthropic Messages endpoint. Package-level var for test
// substitution.
var apiURL = "https://api.anthropic.com/v1/messages"

// ClaudeClient calls the Anthropic Messages API over plain HTTP.
type ClaudeClient struct {
	cfg    types.AIConfig
	client *http.Client
	retry  backoff.Policy
	log    *zap.Logger
}

// NewClaudeClient builds a client from the AI configuration. The retry
// policy's attempt budget follows cfg.MaxRetries.
func NewClaudeClient(cfg types.AIConfig, httpClient *http.Client, retry backoff.Policy, log *zap.Logger) *ClaudeClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	return &ClaudeClient{
		cfg:    cfg,
		client: httpClient,
		retry:  retry.WithAttempts(cfg.MaxRetries),
		log:    log,
	}
}

// Messages API request and response bodies.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one user prompt and returns the first text block of the
// response. HTTP 429 triggers backoff up to the retry budget and then
// surfaces as ErrRateLimited; any other failure returns on the spot.
func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	attempts := c.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	for attempt := 0; ; attempt++ {
		text, retryable, err := c.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		if attempt >= attempts-1 {
			return "", fmt.Errorf("%w after %d attempts", ErrRateLimited, attempts)
		}

		c.log.Warn("rate limit hit, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", c.retry.Delay(attempt)))
		if err := c.retry.Wait(ctx, attempt); err != nil {
			return "", err
		}
	}
}

// completeOnce performs a single API round trip. retryable is true only for
// HTTP 429.
func (c *ClaudeClient) completeOnce(ctx context.Context, prompt string) (text string, retryable bool, err error) {
	reqBody := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("calling model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", true, ErrRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", false, fmt.Errorf("model API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", false, fmt.Errorf("decoding model response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, false, nil
		}
	}
	return "", false, fmt.Errorf("no text content in model response")
}
