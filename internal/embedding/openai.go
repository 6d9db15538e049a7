package embedding

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder wraps a langchaingo embedder over any OpenAI-compatible
// endpoint (OpenAI, OpenRouter, a local server exposing the API).
type OpenAIEmbedder struct {
	impl *embeddings.EmbedderImpl
}

// NewOpenAI creates an embedder for the given endpoint, key, and model.
func NewOpenAI(baseURL, apiKey, model string) (*OpenAIEmbedder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &OpenAIEmbedder{impl: impl}, nil
}

// Embed requests an embedding vector for the text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.impl.EmbedQuery(ctx, text)
}
