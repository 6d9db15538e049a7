package cli

import (
	"testing"

	"github.com/pathshala/pathshala/internal/appconfig"
)

func TestRedactedForDumpMasksAPIKey(t *testing.T) {
	cfg := appconfig.Config{}
	cfg.Embedding.APIKey = "sk-secret"
	cfg.Embedding.Model = "text-embedding-3-small"

	got := redactedForDump(cfg)
	if got.Embedding.APIKey != "[redacted]" {
		t.Errorf("APIKey = %q, want [redacted]", got.Embedding.APIKey)
	}
	if got.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("unrelated field changed: %q", got.Embedding.Model)
	}
	// The original must stay intact for the running process.
	if cfg.Embedding.APIKey != "sk-secret" {
		t.Error("redaction mutated the caller's config")
	}
}

func TestRedactedForDumpLeavesEmptyKeyAlone(t *testing.T) {
	got := redactedForDump(appconfig.Config{})
	if got.Embedding.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", got.Embedding.APIKey)
	}
}
