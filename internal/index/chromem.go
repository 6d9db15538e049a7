package index

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/pathshala/pathshala/internal/appconfig"
	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/embedding"
)

const chromemCompress = false

// ChromemIndex persists chunk embeddings in a chromem-go collection,
// either on disk or fully in memory.
type ChromemIndex struct {
	collection *chromem.Collection
}

// NewChromem opens (or creates) the configured collection. The embedder
// backs chromem's embedding function for any document added without a
// precomputed vector.
func NewChromem(cfg appconfig.IndexConfig, embedder embedding.Embedder) (*ChromemIndex, error) {
	var db *chromem.DB
	var err error
	if cfg.InMemory || cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, chromemCompress)
		if err != nil {
			return nil, fmt.Errorf("open vector index at %q: %w", cfg.Path, err)
		}
	}

	embedFn := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	})
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", cfg.Collection, err)
	}
	return &ChromemIndex{collection: collection}, nil
}

// Add writes chunks into the collection. Chunk metadata rides along as
// string key-values so Search can rebuild full chunks from results.
func (i *ChromemIndex) Add(ctx context.Context, chunks []domain.ContentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for _, ch := range chunks {
		docs = append(docs, chromem.Document{
			ID:        ch.ID,
			Content:   ch.Text,
			Embedding: ch.Embedding,
			Metadata: map[string]string{
				"subject":     ch.Subject,
				"class_level": ch.ClassLevel,
				"chapter":     strconv.Itoa(ch.Chapter),
				"page":        strconv.Itoa(ch.Page),
			},
		})
	}
	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Search returns up to topK nearest chunks for the query vector.
func (i *ChromemIndex) Search(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := i.collection.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		chapter, _ := strconv.Atoi(res.Metadata["chapter"])
		page, _ := strconv.Atoi(res.Metadata["page"])
		hits = append(hits, Hit{
			Chunk: domain.ContentChunk{
				ID:         res.ID,
				Text:       res.Content,
				Subject:    res.Metadata["subject"],
				ClassLevel: res.Metadata["class_level"],
				Chapter:    chapter,
				Page:       page,
				Embedding:  res.Embedding,
			},
			Similarity: float64(res.Similarity),
		})
	}
	return hits, nil
}

// Count reports the number of indexed chunks.
func (i *ChromemIndex) Count() int {
	return i.collection.Count()
}
