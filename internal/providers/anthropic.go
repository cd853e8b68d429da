// Package providers implements schema.LLMClient against the Anthropic
// Messages API. This is the one layer where errors propagate instead of
// being folded into envelopes: the agent cannot answer without a model.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/huddlebot/huddlebot/internal/schema"
)

const anthropicVersion = "2023-06-01"

// Client calls the Anthropic Messages API over HTTP.
type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client. apiBase defaults to the public endpoint
// when empty; an alternate base points the client at a proxy or test server.
func NewClient(apiKey, apiBase string, logger *slog.Logger) *Client {
	if apiBase == "" {
		apiBase = "https://api.anthropic.com/v1"
	}
	return &Client{
		apiKey:     apiKey,
		apiBase:    strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger.With("component", "anthropic"),
	}
}

// CreateMessage implements schema.LLMClient.
func (c *Client) CreateMessage(ctx context.Context, req *schema.MessagesRequest) (*schema.MessagesResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal messages request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/messages", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build messages request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	var out schema.MessagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}

	c.logger.Debug("model call",
		"model", req.Model,
		"stop", out.StopReason,
		"input_tokens", out.Usage.InputTokens,
		"output_tokens", out.Usage.OutputTokens,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &out, nil
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
