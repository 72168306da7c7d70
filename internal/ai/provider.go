package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/cv-sync/internal/ai/gemini"
	"github.com/spigell/cv-sync/internal/ai/openai"
	"github.com/spigell/cv-sync/internal/embedding"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and configures the embedding provider. API keys are
// expected to be resolved already.
type Config struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// NewEmbedder builds the embedder for cfg.Provider. Gemini is the default.
func NewEmbedder(ctx context.Context, cfg Config) (embedding.Embedder, error) {
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", ProviderGemini:
		embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return embedder, nil
	case ProviderOpenAI:
		embedder, err := openai.NewEmbedder(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
		return embedder, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", provider)
	}
}
