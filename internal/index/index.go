// Package index stores content-chunk embeddings and serves
// nearest-neighbor searches over them.
package index

import (
	"context"

	"github.com/pathshala/pathshala/internal/domain"
)

// Hit is a nearest-neighbor match with its cosine similarity.
type Hit struct {
	Chunk      domain.ContentChunk
	Similarity float64
}

// Index is the read-mostly vector index. Search is the hot path; Add
// exists for the ingestion tool.
type Index interface {
	Search(ctx context.Context, vector []float32, topK int) ([]Hit, error)
	Add(ctx context.Context, chunks []domain.ContentChunk) error
	Count() int
}
