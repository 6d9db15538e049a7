package cli

import (
	"fmt"

	"github.com/pathshala/pathshala/internal/appconfig"
	"github.com/pathshala/pathshala/internal/diagram"
	"github.com/pathshala/pathshala/internal/embedding"
	"github.com/pathshala/pathshala/internal/index"
	"github.com/pathshala/pathshala/internal/lifecycle"
	"github.com/pathshala/pathshala/internal/llm"
	"github.com/pathshala/pathshala/internal/orchestrator"
	"github.com/pathshala/pathshala/internal/retrieval"
)

// app bundles the fully-wired engine for the commands.
type app struct {
	store        *appconfig.Store
	embedder     embedding.Embedder
	index        index.Index
	manager      *lifecycle.Manager
	orchestrator *orchestrator.Orchestrator
}

// buildApp constructs the engine stack from the merged configuration.
// Each component reads tunables from the store per operation, so config
// updates apply to the next query.
func buildApp() (*app, error) {
	store := configStore
	cfg := store.Current()

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	idx, err := index.NewChromem(cfg.Index, embedder)
	if err != nil {
		return nil, err
	}

	if cfg.Runtime.Model == "" {
		return nil, fmt.Errorf("runtime.model is required")
	}
	rt := llm.NewOllama(cfg.Runtime.URL,
		llm.WithLoadTimeout(cfg.LoadTimeout()),
		llm.WithInferTimeout(cfg.InferTimeout()),
	)
	manager := lifecycle.New(rt, llm.ModelSpec{Model: cfg.Runtime.Model},
		lifecycle.WithIdleTimeout(cfg.IdleTimeout()),
		lifecycle.WithQueueTimeout(cfg.QueueTimeout()),
	)

	engine := retrieval.New(embedder, idx, func() retrieval.Settings {
		c := store.Current()
		return retrieval.Settings{
			TopK:          c.Retrieval.TopK,
			DeepTopK:      c.Retrieval.DeepTopK,
			MinRelevance:  c.Retrieval.MinRelevance,
			VectorWeight:  c.Retrieval.VectorWeight,
			LexicalWeight: c.Retrieval.LexicalWeight,
		}
	})

	var diagrams diagram.Lookup = diagram.NopLookup{}
	if cfg.Diagrams.Path != "" {
		diagrams, err = diagram.LoadFile(cfg.Diagrams.Path)
		if err != nil {
			return nil, err
		}
	}

	orch := orchestrator.New(engine, manager, diagrams, func() orchestrator.Settings {
		c := store.Current()
		return orchestrator.Settings{
			MaxTokens:   c.Generation.MaxTokens,
			QuizEnabled: c.Generation.Quiz,
		}
	})

	return &app{
		store:        store,
		embedder:     embedder,
		index:        idx,
		manager:      manager,
		orchestrator: orch,
	}, nil
}
