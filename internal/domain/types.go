// Package domain holds the value types and error taxonomy shared by the
// retrieval, lifecycle, and orchestration packages.
package domain

import (
	"sort"
	"time"
)

// ContentChunk is an immutable unit of indexed curriculum content. Chunks
// are produced by the external indexing pipeline and owned by the vector
// index; nothing in this process mutates them.
type ContentChunk struct {
	ID         string    `json:"chunk_id"`
	Text       string    `json:"text"`
	Subject    string    `json:"subject"`
	ClassLevel string    `json:"class_level"`
	Chapter    int       `json:"chapter"`
	Page       int       `json:"page_number"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// ScoredChunk pairs a chunk with its blended relevance score.
type ScoredChunk struct {
	Chunk ContentChunk
	Score float64
}

// RetrievedContext is the query-scoped result of retrieval: scored chunks
// in descending relevance order, deduplicated by chunk ID. An empty
// context is the out-of-scope signal, not an error.
type RetrievedContext []ScoredChunk

// ChapterRef identifies a chapter contributing to an answer.
type ChapterRef struct {
	Subject string `json:"subject"`
	Chapter int    `json:"chapter"`
	Page    int    `json:"page_number"`
}

// Chapters returns the distinct (subject, chapter) pairs present in the
// context, ordered by subject then chapter. The page recorded for each
// chapter is taken from its best-ranked chunk.
func (c RetrievedContext) Chapters() []ChapterRef {
	type key struct {
		subject string
		chapter int
	}
	seen := make(map[key]ChapterRef, len(c))
	for _, sc := range c {
		k := key{sc.Chunk.Subject, sc.Chunk.Chapter}
		if _, ok := seen[k]; !ok {
			seen[k] = ChapterRef{Subject: sc.Chunk.Subject, Chapter: sc.Chunk.Chapter, Page: sc.Chunk.Page}
		}
	}
	refs := make([]ChapterRef, 0, len(seen))
	for _, ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Subject != refs[j].Subject {
			return refs[i].Subject < refs[j].Subject
		}
		return refs[i].Chapter < refs[j].Chapter
	})
	return refs
}

// ChunkIDs returns the chunk IDs in rank order.
func (c RetrievedContext) ChunkIDs() []string {
	ids := make([]string, 0, len(c))
	for _, sc := range c {
		ids = append(ids, sc.Chunk.ID)
	}
	return ids
}

// QuizItem is a single multiple-choice question attached to an answer.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// QueryResult is the orchestrator's output for one query. It is created
// fresh per query and never persisted by this subsystem.
type QueryResult struct {
	ID               string       `json:"id"`
	AnswerText       string       `json:"answer_text"`
	SourceReferences []ChapterRef `json:"source_references"`
	Diagrams         []string     `json:"diagrams,omitempty"`
	Quiz             []QuizItem   `json:"quiz,omitempty"`
	Grounded         bool         `json:"grounded"`
}

// ModelState enumerates the lifecycle states of the single shared
// generative-model slot.
type ModelState int

const (
	StateUnloaded ModelState = iota
	StateLoading
	StateReady
	StateGenerating
)

// String returns the lowercase state name used in logs and status output.
func (s ModelState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateGenerating:
		return "generating"
	default:
		return "unknown"
	}
}

// ModelStatus is the read-only snapshot exposed for status displays.
type ModelStatus struct {
	State       ModelState    `json:"state"`
	LastAccess  time.Time     `json:"last_access"`
	IdleTimeout time.Duration `json:"idle_timeout"`
}
