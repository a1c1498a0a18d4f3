package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/prompts"
)

const (
	DefaultGeminiModel = "gemini-3-flash-preview"

	geminiThinkingBudget int32 = 4096
)

// Gemini runs audits with Google Search grounding, and Google Maps grounding
// when the request carries a location.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, req *prompts.Request) (*Response, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, generateConfig(req))
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return &Response{Text: result.Text(), Citations: citations(result)}, nil
}

func (g *Gemini) Model() string {
	return g.model
}

func generateConfig(req *prompts.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema),
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(geminiThinkingBudget)},
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.SystemInstruction)}}
	}
	if !req.Grounding {
		return cfg
	}

	cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	if loc := req.Location; loc != nil {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(loc.Latitude),
					Longitude: genai.Ptr(loc.Longitude),
				},
			},
		}
	}
	return cfg
}

var genaiTypes = map[prompts.SchemaType]genai.Type{
	prompts.TypeObject:  genai.TypeObject,
	prompts.TypeArray:   genai.TypeArray,
	prompts.TypeString:  genai.TypeString,
	prompts.TypeNumber:  genai.TypeNumber,
	prompts.TypeInteger: genai.TypeInteger,
	prompts.TypeBoolean: genai.TypeBoolean,
}

func toGenaiSchema(s *prompts.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

// citations collects the grounding chunks of the first candidate.
func citations(resp *genai.GenerateContentResponse) []model.Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	out := make([]model.Citation, 0, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		switch {
		case chunk == nil:
		case chunk.Web != nil:
			out = append(out, model.Citation{Kind: model.CitationWeb, Title: chunk.Web.Title, URI: chunk.Web.URI})
		case chunk.Maps != nil:
			out = append(out, model.Citation{Kind: model.CitationMaps, Title: chunk.Maps.Title, URI: chunk.Maps.URI})
		default:
			out = append(out, model.Citation{Kind: model.CitationOther})
		}
	}
	return out
}
