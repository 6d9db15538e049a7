// Package embedding turns text into fixed-length vectors via an external
// provider.
package embedding

import (
	"context"
	"fmt"

	"github.com/pathshala/pathshala/internal/appconfig"
)

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New builds the embedder named by the configuration.
func New(cfg appconfig.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllama(cfg.URL, cfg.Model), nil
	case "openai":
		return NewOpenAI(cfg.URL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
