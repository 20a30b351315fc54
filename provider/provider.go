package provider

import (
	"context"
	"errors"

	"github.com/prismnews/prism/config"
	openai_provider "github.com/prismnews/prism/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Provider is the interface that all LLM implementations must satisfy.
// Complete is a single stateless round trip; no session is carried between calls.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenAI:
		return openai_provider.NewOpenAIClient(
			cfg.APIKey,
			cfg.CompletionModel,
			cfg.EmbeddingModel,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
