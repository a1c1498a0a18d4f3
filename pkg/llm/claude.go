package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helmcode/hotel-audit/pkg/prompts"
)

const (
	DefaultClaudeModel   = "claude-sonnet-4-20250514"
	DefaultClaudeBaseURL = "https://api.anthropic.com/v1/messages"
)

type Claude struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

func NewClaude(apiKey string) *Claude {
	return NewClaudeWithModel(apiKey, DefaultClaudeModel)
}

func NewClaudeWithModel(apiKey, model string) *Claude {
	return &Claude{
		apiKey:  apiKey,
		baseURL: DefaultClaudeBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		model:   model,
	}
}

// WithBaseURL points the client at another Messages endpoint.
func (c *Claude) WithBaseURL(url string) *Claude {
	if url != "" {
		c.baseURL = url
	}
	return c
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends the audit as a single Messages call. Claude has no live
// search here, so the answer carries no citations.
func (c *Claude) Generate(ctx context.Context, req *prompts.Request) (*Response, error) {
	jsonBody, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   8192,
		Temperature: 0,
		System:      req.SystemInstruction,
		Messages:    []claudeMessage{{Role: "user", Content: schemaPrompt(req)}},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Claude request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Claude API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &claudeResp); err != nil {
		return nil, fmt.Errorf("failed to decode Claude response: %w", err)
	}
	if claudeResp.Error.Message != "" {
		return nil, fmt.Errorf("Claude API error: %s", claudeResp.Error.Message)
	}

	var text string
	for _, block := range claudeResp.Content {
		if block.Type == "" || block.Type == "text" {
			text += block.Text
		}
	}
	return &Response{Text: text}, nil
}

func (c *Claude) Model() string {
	return c.model
}
