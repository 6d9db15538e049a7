// Package diagram resolves which diagrams accompany retrieved chunks.
// The mapping itself is produced by the external indexing pipeline; this
// package only looks it up.
package diagram

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Lookup maps chunk IDs to diagram identifiers.
type Lookup interface {
	FindForChunks(ctx context.Context, chunkIDs []string) ([]string, error)
}

// FileLookup serves the mapping from a JSON file of the form
// {"chunk-id": ["diagram-id", ...], ...}.
type FileLookup struct {
	byChunk map[string][]string
}

// LoadFile reads the mapping file.
func LoadFile(path string) (*FileLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open diagram map: %w", err)
	}
	var byChunk map[string][]string
	if err := json.Unmarshal(data, &byChunk); err != nil {
		return nil, fmt.Errorf("parse diagram map %q: %w", path, err)
	}
	return &FileLookup{byChunk: byChunk}, nil
}

// FindForChunks returns the diagrams for the given chunks, deduplicated,
// in chunk-rank order.
func (l *FileLookup) FindForChunks(_ context.Context, chunkIDs []string) ([]string, error) {
	var diagrams []string
	seen := make(map[string]struct{})
	for _, id := range chunkIDs {
		for _, d := range l.byChunk[id] {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			diagrams = append(diagrams, d)
		}
	}
	return diagrams, nil
}

// NopLookup is used when no diagram mapping is configured.
type NopLookup struct{}

// FindForChunks always returns no diagrams.
func (NopLookup) FindForChunks(context.Context, []string) ([]string, error) {
	return nil, nil
}
