// Package orchestrator produces one structured, grounded answer per
// query by coordinating retrieval, generation, and enrichment.
package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathshala/pathshala/internal/diagram"
	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/logging"
	"github.com/pathshala/pathshala/internal/retrieval"
)

// NotCoveredMessage is the fixed answer for out-of-scope queries.
const NotCoveredMessage = "This topic isn't covered in your course material yet. " +
	"Try rephrasing your question, or ask about a topic from your textbook."

// Options adjust a single query.
type Options struct {
	// DeepExplanation widens retrieval and requests layered output.
	DeepExplanation bool
	// UserLevel hints the phrasing level, e.g. "class 8".
	UserLevel string
}

// Settings are read fresh per query so runtime configuration updates
// apply on the next operation.
type Settings struct {
	MaxTokens   int
	QuizEnabled bool
}

// Generator is the lifecycle manager's surface the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Status() domain.ModelStatus
}

// Retriever is the retrieval engine's surface the orchestrator needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts retrieval.Options) (domain.RetrievedContext, error)
}

// Orchestrator composes the retrieval engine, the model lifecycle
// manager, and diagram lookup into the subsystem's single entry point.
type Orchestrator struct {
	retriever Retriever
	generator Generator
	diagrams  diagram.Lookup
	settings  func() Settings
}

// New wires an Orchestrator. settings is called once per query.
func New(retriever Retriever, generator Generator, diagrams diagram.Lookup, settings func() Settings) *Orchestrator {
	if diagrams == nil {
		diagrams = diagram.NopLookup{}
	}
	return &Orchestrator{
		retriever: retriever,
		generator: generator,
		diagrams:  diagrams,
		settings:  settings,
	}
}

// HandleQuery answers one query. Out-of-scope queries short-circuit to an
// ungrounded "not covered" result without touching the model; retrieval
// and generation failures abort the query with their typed error. Quiz
// generation is the only recoverable step.
func (o *Orchestrator) HandleQuery(ctx context.Context, query string, opts Options) (domain.QueryResult, error) {
	s := o.settings()
	result := domain.QueryResult{ID: uuid.NewString()}
	logging.Info("handling query",
		zap.String("query_id", result.ID),
		zap.Bool("deep", opts.DeepExplanation))

	ctxt, err := o.retriever.Retrieve(ctx, query, retrieval.Options{Deep: opts.DeepExplanation})
	if err != nil {
		return domain.QueryResult{}, err
	}

	if len(ctxt) == 0 {
		// The grounding contract: no context, no generation.
		result.AnswerText = NotCoveredMessage
		result.Grounded = false
		logging.Info("query not covered", zap.String("query_id", result.ID))
		return result, nil
	}

	chapters := ctxt.Chapters()
	prompt := BuildAnswerPrompt(query, ctxt, chapters, opts)

	logging.Debug("generating answer",
		zap.String("query_id", result.ID),
		zap.Int("chunks", len(ctxt)),
		zap.Int("chapters", len(chapters)))
	answer, err := o.generator.Generate(ctx, prompt, s.MaxTokens)
	if err != nil {
		return domain.QueryResult{}, err
	}
	result.AnswerText = answer
	result.Grounded = true
	result.SourceReferences = chapters

	diagrams, err := o.diagrams.FindForChunks(ctx, ctxt.ChunkIDs())
	if err != nil {
		// Diagram lookup is pure enrichment; the answer stands without it.
		logging.Warn("diagram lookup failed", zap.String("query_id", result.ID), zap.Error(err))
	} else {
		result.Diagrams = diagrams
	}

	if s.QuizEnabled {
		quiz, err := o.generateQuiz(ctx, query, answer, ctxt, s.MaxTokens)
		if err != nil {
			logging.Warn("quiz generation failed", zap.String("query_id", result.ID), zap.Error(err))
		} else {
			result.Quiz = quiz
		}
	}

	logging.Info("query answered",
		zap.String("query_id", result.ID),
		zap.Int("references", len(result.SourceReferences)),
		zap.Int("diagrams", len(result.Diagrams)),
		zap.Int("quiz_items", len(result.Quiz)))
	return result, nil
}

// ModelStatus exposes the lifecycle manager's snapshot for status
// surfaces.
func (o *Orchestrator) ModelStatus() domain.ModelStatus {
	return o.generator.Status()
}
