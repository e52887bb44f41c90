// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/embeddings"
	"github.com/thornmill/loreindex/pkg/embeddings/ollama"
	"github.com/thornmill/loreindex/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string

	// Fallback* configure the optional alternate provider used for a
	// single retry when the primary fails. Empty FallbackProvider
	// disables the retry chain.
	FallbackProvider string
	FallbackTarget   string
	FallbackModel    string
	FallbackAPIKey   string

	Logger *zap.Logger
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	primary, err := newProvider(o.ProviderType, o.TargetURL, o.Model, o.APIKey)
	if err != nil {
		return nil, err
	}

	if o.FallbackProvider == "" {
		return primary, nil
	}

	fallback, err := newProvider(o.FallbackProvider, o.FallbackTarget, o.FallbackModel, o.FallbackAPIKey)
	if err != nil {
		primary.Close()
		return nil, err
	}

	return embeddings.NewFallback(primary, fallback, o.Logger), nil
}

func newProvider(providerType, targetURL, model, apiKey string) (embeddings.Embedder, error) {
	switch providerType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: targetURL,
			Model:   model,
		})
	case "openai":
		return openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  apiKey,
			BaseURL: targetURL,
			Model:   model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
