package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedRequest struct {
	Model     string         `json:"model"`
	Prompt    string         `json:"prompt"`
	Stream    *bool          `json:"stream"`
	KeepAlive *int           `json:"keep_alive"`
	Options   map[string]any `json:"options"`
}

func newFakeOllama(t *testing.T, respond func(w http.ResponseWriter, req capturedRequest)) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var requests []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, req)
		respond(w, req)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func okResponse(text string) func(w http.ResponseWriter, req capturedRequest) {
	return func(w http.ResponseWriter, req capturedRequest) {
		json.NewEncoder(w).Encode(map[string]any{"response": text, "done": true})
	}
}

func TestLoadPinsModel(t *testing.T) {
	server, requests := newFakeOllama(t, okResponse(""))
	rt := NewOllama(server.URL)

	h, err := rt.Load(context.Background(), ModelSpec{Model: "llama3.2:3b"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Model != "llama3.2:3b" {
		t.Errorf("handle model = %q", h.Model)
	}

	req := (*requests)[0]
	if req.Model != "llama3.2:3b" {
		t.Errorf("request model = %q", req.Model)
	}
	if req.KeepAlive == nil || *req.KeepAlive != -1 {
		t.Errorf("keep_alive = %v, want -1", req.KeepAlive)
	}
	if req.Prompt != "" {
		t.Errorf("load request carried a prompt: %q", req.Prompt)
	}
}

func TestInferSendsPromptAndLimit(t *testing.T) {
	server, requests := newFakeOllama(t, okResponse("The moon reflects sunlight."))
	rt := NewOllama(server.URL)

	text, err := rt.Infer(context.Background(), Handle{Model: "llama3.2:3b"}, "why does the moon shine", 256)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if text != "The moon reflects sunlight." {
		t.Errorf("text = %q", text)
	}

	req := (*requests)[0]
	if req.Prompt != "why does the moon shine" {
		t.Errorf("prompt = %q", req.Prompt)
	}
	if req.Stream == nil || *req.Stream {
		t.Error("stream should be false")
	}
	if req.KeepAlive == nil || *req.KeepAlive != -1 {
		t.Errorf("keep_alive = %v, want -1 (inference must not reset the pin)", req.KeepAlive)
	}
	if got, ok := req.Options["num_predict"].(float64); !ok || int(got) != 256 {
		t.Errorf("num_predict = %v, want 256", req.Options["num_predict"])
	}
}

func TestInferEmptyResponseIsError(t *testing.T) {
	server, _ := newFakeOllama(t, okResponse("   "))
	rt := NewOllama(server.URL)

	_, err := rt.Infer(context.Background(), Handle{Model: "m"}, "q", 0)
	if err == nil {
		t.Fatal("expected error for empty model output")
	}
	if IsFatal(err) {
		t.Error("empty output should not be fatal")
	}
}

func TestUnloadEvictsModel(t *testing.T) {
	server, requests := newFakeOllama(t, okResponse(""))
	rt := NewOllama(server.URL)

	if err := rt.Unload(context.Background(), Handle{Model: "llama3.2:3b"}); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	req := (*requests)[0]
	if req.KeepAlive == nil || *req.KeepAlive != 0 {
		t.Errorf("keep_alive = %v, want 0", req.KeepAlive)
	}
}

func TestTransportFailureIsFatal(t *testing.T) {
	server, _ := newFakeOllama(t, okResponse(""))
	server.Close() // connection refused from here on
	rt := NewOllama(server.URL)

	_, err := rt.Load(context.Background(), ModelSpec{Model: "m"})
	if err == nil {
		t.Fatal("expected error against a dead server")
	}
	if !IsFatal(err) {
		t.Errorf("transport failure should be fatal: %v", err)
	}
}

func TestServerErrorIsNotFatal(t *testing.T) {
	server, _ := newFakeOllama(t, func(w http.ResponseWriter, req capturedRequest) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	})
	rt := NewOllama(server.URL)

	_, err := rt.Load(context.Background(), ModelSpec{Model: "missing"})
	if err == nil {
		t.Fatal("expected error for missing model")
	}
	if IsFatal(err) {
		t.Errorf("HTTP-level failure should not be fatal: %v", err)
	}
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Op != "load" {
		t.Errorf("err = %v, want runtime Error with op load", err)
	}
}
