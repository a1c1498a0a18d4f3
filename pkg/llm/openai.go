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
	DefaultOpenAIModel   = "gpt-4o"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"
)

type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAIWithModel(apiKey, DefaultOpenAIModel)
}

func NewOpenAIWithModel(apiKey, model string) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: DefaultOpenAIBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		model:   model,
	}
}

// WithBaseURL points the client at another chat completions endpoint.
func (o *OpenAI) WithBaseURL(url string) *OpenAI {
	if url != "" {
		o.baseURL = url
	}
	return o
}

func (o *OpenAI) Generate(ctx context.Context, req *prompts.Request) (*Response, error) {
	messages := []map[string]string{}
	if req.SystemInstruction != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.SystemInstruction})
	}
	messages = append(messages, map[string]string{"role": "user", "content": schemaPrompt(req)})

	body := map[string]interface{}{
		"model":           o.model,
		"messages":        messages,
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode OpenAI response: %w", err)
	}
	if openaiResp.Error.Message != "" {
		return nil, fmt.Errorf("OpenAI API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return &Response{}, nil
	}
	return &Response{Text: openaiResp.Choices[0].Message.Content}, nil
}

// Model returns the model being used by this OpenAI client
func (o *OpenAI) Model() string {
	return o.model
}
