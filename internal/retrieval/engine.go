// Package retrieval converts a query into ranked, deduplicated grounding
// context and detects out-of-scope queries.
package retrieval

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/embedding"
	"github.com/pathshala/pathshala/internal/index"
	"github.com/pathshala/pathshala/internal/logging"
)

// Settings are the tunable retrieval parameters, read fresh per call so
// runtime configuration updates apply to the next query.
type Settings struct {
	TopK          int
	DeepTopK      int
	MinRelevance  float64
	VectorWeight  float64
	LexicalWeight float64
}

// Options adjust a single Retrieve call.
type Options struct {
	// TopK overrides the configured candidate count when positive.
	TopK int
	// Deep widens the search for deep-explanation requests.
	Deep bool
}

// Engine wraps the embedding provider and vector index and adds
// reranking, deduplication, and the out-of-scope threshold.
type Engine struct {
	embedder embedding.Embedder
	index    index.Index
	settings func() Settings
}

// New returns an Engine. settings is called once per Retrieve.
func New(embedder embedding.Embedder, idx index.Index, settings func() Settings) *Engine {
	return &Engine{embedder: embedder, index: idx, settings: settings}
}

// Retrieve embeds the query, searches the index, reranks with a blended
// vector/lexical score, and deduplicates. An empty result means the
// query is out of scope; embedding or index failures surface as
// RetrievalError.
func (e *Engine) Retrieve(ctx context.Context, query string, opts Options) (domain.RetrievedContext, error) {
	s := e.settings()
	topK := s.TopK
	if opts.Deep {
		topK = s.DeepTopK
	}
	if opts.TopK > 0 {
		topK = opts.TopK
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.RetrievalError{Stage: "embed", Err: err}
	}

	hits, err := e.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, &domain.RetrievalError{Stage: "search", Err: err}
	}
	if len(hits) == 0 {
		return domain.RetrievedContext{}, nil
	}

	queryTokens := tokenSet(query)
	best := make(map[string]domain.ScoredChunk, len(hits))
	for _, hit := range hits {
		score := s.VectorWeight*hit.Similarity + s.LexicalWeight*lexicalOverlap(queryTokens, hit.Chunk.Text)
		if prev, ok := best[hit.Chunk.ID]; !ok || score > prev.Score {
			best[hit.Chunk.ID] = domain.ScoredChunk{Chunk: hit.Chunk, Score: score}
		}
	}

	ranked := make(domain.RetrievedContext, 0, len(best))
	for _, sc := range best {
		ranked = append(ranked, sc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		// Equal scores: earlier curriculum material wins, then chunk ID,
		// to keep results deterministic.
		if ranked[i].Chunk.Chapter != ranked[j].Chunk.Chapter {
			return ranked[i].Chunk.Chapter < ranked[j].Chunk.Chapter
		}
		return ranked[i].Chunk.ID < ranked[j].Chunk.ID
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	if ranked[0].Score < s.MinRelevance {
		logging.Info("query out of scope",
			zap.String("query", query),
			zap.Float64("best_score", ranked[0].Score),
			zap.Float64("threshold", s.MinRelevance))
		return domain.RetrievedContext{}, nil
	}

	logging.Debug("retrieved context",
		zap.String("query", query),
		zap.Int("chunks", len(ranked)),
		zap.Float64("best_score", ranked[0].Score))
	return ranked, nil
}

// DetectChapters returns the distinct chapters present in the context.
func (e *Engine) DetectChapters(ctxt domain.RetrievedContext) []domain.ChapterRef {
	return ctxt.Chapters()
}
