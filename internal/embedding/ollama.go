package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaEmbedder requests embeddings from an Ollama server's
// /api/embeddings endpoint.
type OllamaEmbedder struct {
	url     string
	model   string
	client  *http.Client
	timeout time.Duration
}

// NewOllama returns an embedder for the given server URL and model.
func NewOllama(url, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		url:     url,
		model:   model,
		client:  http.DefaultClient,
		timeout: 60 * time.Second,
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (e *OllamaEmbedder) SetHTTPClient(c *http.Client) { e.client = c }

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed requests an embedding vector for the text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(e.model) == "" {
		return nil, fmt.Errorf("embedding model is empty")
	}
	payload := map[string]any{
		"model":  e.model,
		"prompt": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response returned empty vector")
	}
	return parsed.Embedding, nil
}
