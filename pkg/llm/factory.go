package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/helmcode/hotel-audit/pkg/config"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// GetAvailableProviders returns a list of available LLM providers
func GetAvailableProviders() []Provider {
	return []Provider{ProviderGemini, ProviderClaude, ProviderOpenAI}
}

// ParseProvider maps a name to a Provider. Empty means Gemini, the only
// provider with live search grounding.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "", ProviderGemini, "google":
		return ProviderGemini, nil
	case ProviderClaude, "anthropic":
		return ProviderClaude, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s (supported: gemini, claude, openai)", name)
	}
}

// CreateFromConfig creates an LLM from configuration. Non-empty overrides
// win over LLM_PROVIDER and the per-provider model variables.
func CreateFromConfig(ctx context.Context, cfg *config.Config, providerOverride, modelOverride string) (LLM, error) {
	name := cfg.Provider
	if providerOverride != "" {
		name = providerOverride
	}
	provider, err := ParseProvider(name)
	if err != nil {
		return nil, err
	}

	pick := func(fromEnv, fallback string) string {
		if modelOverride != "" {
			return modelOverride
		}
		if fromEnv != "" {
			return fromEnv
		}
		return fallback
	}

	switch provider {
	case ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return NewClaudeWithModel(cfg.AnthropicAPIKey, pick(cfg.ClaudeModel, DefaultClaudeModel)).
			WithBaseURL(cfg.ClaudeBaseURL), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return NewOpenAIWithModel(cfg.OpenAIAPIKey, pick(cfg.OpenAIModel, DefaultOpenAIModel)).
			WithBaseURL(cfg.OpenAIBaseURL), nil

	default:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		return NewGemini(ctx, cfg.GeminiAPIKey, pick(cfg.GeminiModel, DefaultGeminiModel))
	}
}
