package domain

import (
	"errors"
	"fmt"
)

// ErrQueueTimeout is returned when a caller's bounded wait for the
// generation slot elapses. The in-flight generation is unaffected.
var ErrQueueTimeout = errors.New("timed out waiting for the generation slot")

// ErrQuizInvalid reports that the model's quiz output did not satisfy the
// quiz schema. Quiz failures are recoverable; callers log and continue.
var ErrQuizInvalid = errors.New("quiz output failed schema validation")

// RetrievalError wraps an embedding or vector-search failure. Queries
// fail closed on it: no partial or ungrounded answer is produced.
type RetrievalError struct {
	Stage string // "embed" or "search"
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed at %s: %v", e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ModelLoadError reports that the generative runtime failed to
// initialize. The lifecycle state reverts to unloaded; a later call may
// attempt a fresh load.
type ModelLoadError struct {
	Model string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Model, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// GenerationError reports a runtime failure during inference. Fatal
// means the runtime itself is gone and the model slot was unloaded;
// otherwise the model remains loaded and ready.
type GenerationError struct {
	Fatal bool
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Fatal {
		return fmt.Sprintf("generation failed, runtime unloaded: %v", e.Err)
	}
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
