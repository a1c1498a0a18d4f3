// Package llm talks to the generative AI services that research and write
// the audit. Each adapter sends one request and returns the raw text; making
// sense of that text is left to the caller.
package llm

import (
	"context"

	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/prompts"
)

// LLM is a single-shot text generator.
type LLM interface {
	Generate(ctx context.Context, req *prompts.Request) (*Response, error)
	Model() string
}

// Response is the text of the answer plus any citations the service attached
// outside of it.
type Response struct {
	Text      string
	Citations []model.Citation
}

// schemaPrompt appends the output schema to the task for providers without
// native structured output.
func schemaPrompt(req *prompts.Request) string {
	if req.Schema == nil {
		return req.Prompt
	}
	return req.Prompt + "\n\nRespond with a single JSON object that follows this JSON schema:\n" + req.Schema.JSON()
}
