package provider

import (
	"context"
	"errors"

	"github.com/GoldenRodger5/isaac-mineo-sub001/config"
	openai_provider "github.com/GoldenRodger5/isaac-mineo-sub001/provider/openai"
)

// Client represents different model providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Provider is the interface the pipeline's completion and embedding calls go
// through; implementations are swappable behind it.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates a model client from configuration
func NewProvider(client Client, cfg config.OpenAIConfig) (Provider, error) {
	switch client {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("openai api key not configured")
		}
		return openai_provider.NewOpenAIClient(cfg), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported model provider")
	}
}
