package llm

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

// OllamaRuntime talks to an Ollama server over its native HTTP API. A
// bare generate request with keep_alive -1 pins the model in memory; a
// keep_alive of 0 evicts it.
type OllamaRuntime struct {
	url          string
	client       *http.Client
	loadTimeout  time.Duration
	inferTimeout time.Duration
}

// OllamaOption customizes an OllamaRuntime.
type OllamaOption func(*OllamaRuntime)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(r *OllamaRuntime) { r.client = c }
}

// WithLoadTimeout bounds how long a model load may take.
func WithLoadTimeout(d time.Duration) OllamaOption {
	return func(r *OllamaRuntime) { r.loadTimeout = d }
}

// WithInferTimeout bounds a single inference call.
func WithInferTimeout(d time.Duration) OllamaOption {
	return func(r *OllamaRuntime) { r.inferTimeout = d }
}

// NewOllama returns a runtime client for the Ollama server at url.
func NewOllama(url string, opts ...OllamaOption) *OllamaRuntime {
	r := &OllamaRuntime{
		url:          url,
		client:       http.DefaultClient,
		loadTimeout:  2 * time.Minute,
		inferTimeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Load pins the model into the server's memory via an empty generate
// request. Ollama blocks until the weights are resident, so a 200 means
// the model is ready.
func (r *OllamaRuntime) Load(ctx context.Context, spec ModelSpec) (Handle, error) {
	payload := map[string]any{
		"model":      spec.Model,
		"keep_alive": -1,
	}
	if _, err := r.post(ctx, payload, r.loadTimeout, "load"); err != nil {
		return Handle{}, err
	}
	return Handle{Model: spec.Model}, nil
}

// Infer runs a single blocking generation against a loaded model.
func (r *OllamaRuntime) Infer(ctx context.Context, h Handle, prompt string, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":      h.Model,
		"prompt":     prompt,
		"stream":     false,
		"keep_alive": -1,
	}
	if maxTokens > 0 {
		payload["options"] = map[string]any{"num_predict": maxTokens}
	}
	body, err := r.post(ctx, payload, r.inferTimeout, "infer")
	if err != nil {
		return "", err
	}
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Op: "infer", Err: fmt.Errorf("parse generate response: %w", err)}
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", &Error{Op: "infer", Err: fmt.Errorf("generate response returned no text")}
	}
	return parsed.Response, nil
}

// Unload evicts the model by sending a generate request with keep_alive 0.
func (r *OllamaRuntime) Unload(ctx context.Context, h Handle) error {
	payload := map[string]any{
		"model":      h.Model,
		"keep_alive": 0,
	}
	_, err := r.post(ctx, payload, r.loadTimeout, "unload")
	return err
}

func (r *OllamaRuntime) post(ctx context.Context, payload map[string]any, timeout time.Duration, op string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		// Transport-level failure: the server is unreachable, so any
		// loaded model must be treated as gone.
		return nil, &Error{Op: op, Fatal: true, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Fatal: true, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: op, Err: fmt.Errorf("/api/generate returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))}
	}
	return raw, nil
}
