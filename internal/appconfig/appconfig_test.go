package appconfig

import (
	"testing"
	"time"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	var cfg Config
	cfg.Normalize()

	if cfg.Retrieval.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.DeepTopK != 10 {
		t.Errorf("DeepTopK = %d, want 10", cfg.Retrieval.DeepTopK)
	}
	if cfg.Retrieval.MinRelevance != 0.4 {
		t.Errorf("MinRelevance = %f, want 0.4", cfg.Retrieval.MinRelevance)
	}
	if cfg.Generation.MaxTokens != 768 {
		t.Errorf("MaxTokens = %d, want 768", cfg.Generation.MaxTokens)
	}
	if cfg.Lifecycle.IdleTimeoutSeconds != 600 {
		t.Errorf("IdleTimeoutSeconds = %d, want 600", cfg.Lifecycle.IdleTimeoutSeconds)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama", cfg.Embedding.Provider)
	}
	if cfg.Index.Collection != "curriculum" {
		t.Errorf("Collection = %q, want curriculum", cfg.Index.Collection)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Retrieval.TopK = 7
	cfg.Lifecycle.IdleTimeoutSeconds = 60
	cfg.Normalize()

	if cfg.Retrieval.TopK != 7 {
		t.Errorf("TopK = %d, want 7", cfg.Retrieval.TopK)
	}
	if cfg.Lifecycle.IdleTimeoutSeconds != 60 {
		t.Errorf("IdleTimeoutSeconds = %d, want 60", cfg.Lifecycle.IdleTimeoutSeconds)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{}
	cfg.Lifecycle.IdleTimeoutSeconds = 90
	cfg.Lifecycle.IdleCheckSeconds = 15
	cfg.Generation.QueueTimeoutSeconds = 5
	cfg.Runtime.LoadTimeoutSeconds = 120
	cfg.Runtime.InferTimeoutSeconds = 300

	if got := cfg.IdleTimeout(); got != 90*time.Second {
		t.Errorf("IdleTimeout = %v", got)
	}
	if got := cfg.IdleCheckInterval(); got != 15*time.Second {
		t.Errorf("IdleCheckInterval = %v", got)
	}
	if got := cfg.QueueTimeout(); got != 5*time.Second {
		t.Errorf("QueueTimeout = %v", got)
	}
	if got := cfg.LoadTimeout(); got != 120*time.Second {
		t.Errorf("LoadTimeout = %v", got)
	}
	if got := cfg.InferTimeout(); got != 300*time.Second {
		t.Errorf("InferTimeout = %v", got)
	}
}

func TestQueueTimeoutZeroMeansUnbounded(t *testing.T) {
	var cfg Config
	if got := cfg.QueueTimeout(); got != 0 {
		t.Errorf("QueueTimeout = %v, want 0 (unbounded)", got)
	}
}

func TestStoreUpdateTakesEffectOnNextRead(t *testing.T) {
	initial := Config{}
	initial.Normalize()
	store := NewStore(initial)

	if got := store.Current().Retrieval.TopK; got != 5 {
		t.Fatalf("initial TopK = %d, want 5", got)
	}

	updated := store.Current()
	updated.Retrieval.TopK = 8
	store.Update(updated)

	if got := store.Current().Retrieval.TopK; got != 8 {
		t.Errorf("updated TopK = %d, want 8", got)
	}
}

func TestStoreUpdateNormalizes(t *testing.T) {
	store := NewStore(Config{})
	store.Update(Config{})
	if got := store.Current().Generation.MaxTokens; got != 768 {
		t.Errorf("MaxTokens after update = %d, want 768", got)
	}
}
