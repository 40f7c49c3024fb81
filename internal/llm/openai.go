package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-5-nano"

	defaultHTTPClientTimeout = 60 * time.Second
)

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

func (c OpenAIConfig) withDefaults() OpenAIConfig {
	out := c
	if strings.TrimSpace(out.BaseURL) == "" {
		out.BaseURL = DefaultOpenAIBaseURL
	}
	if strings.TrimSpace(out.Model) == "" {
		out.Model = DefaultOpenAIModel
	}
	return out
}

// OpenAIGenerator requests JSON-object chat completions from an
// OpenAI-compatible endpoint.
type OpenAIGenerator struct {
	client openaigo.Client
	model  string
}

func NewOpenAIGenerator(cfg OpenAIConfig, httpClient *http.Client) (*OpenAIGenerator, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPClientTimeout}
	}

	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")),
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
		// A failed call goes straight to the caller's fallback.
		option.WithMaxRetries(0),
	)
	return &OpenAIGenerator{client: client, model: strings.TrimSpace(cfg.Model)}, nil
}

func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, prompt string, maxTokens int) (string, error) {
	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(g.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
		ResponseFormat: openaigo.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxCompletionTokens: openaigo.Int(int64(maxTokens)),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
