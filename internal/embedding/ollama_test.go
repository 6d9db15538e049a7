package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	var gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel, gotPrompt = req.Model, req.Prompt
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	e := NewOllama(server.URL, "nomic-embed-text")
	vec, err := e.Embed(context.Background(), "the water cycle")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}
	if gotModel != "nomic-embed-text" {
		t.Errorf("model = %q", gotModel)
	}
	if gotPrompt != "the water cycle" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestOllamaEmbedEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{}})
	}))
	defer server.Close()

	e := NewOllama(server.URL, "nomic-embed-text")
	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty embedding vector")
	}
}

func TestOllamaEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	e := NewOllama(server.URL, "missing")
	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error for HTTP failure")
	}
}

func TestOllamaEmbedEmptyModel(t *testing.T) {
	e := NewOllama("http://localhost:1", "")
	if _, err := e.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty model name")
	}
}
