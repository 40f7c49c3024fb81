// Package llm provides the hosted text-generation backends used for
// wellness insights.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindspace/internal/config"
	"github.com/mindspace/internal/insights"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// NewFromConfig builds the configured provider. It returns nil, nil when the
// provider has no credentials, leaving insights on their fallbacks.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (insights.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIGenerator(OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}, nil)
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiGenerator(ctx, GeminiConfig{
			BaseURL: cfg.GeminiBaseURL,
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
		}, nil)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
