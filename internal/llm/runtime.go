// Package llm defines the narrow interface to the local generative-model
// runtime and its Ollama-backed implementation. The runtime is consumed,
// never reimplemented: load, infer, unload, nothing else.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ModelSpec identifies the model to load.
type ModelSpec struct {
	Model string
}

// Handle refers to a loaded model instance. Only the lifecycle manager
// holds handles; they never escape it.
type Handle struct {
	Model string
}

// Runtime is the synchronous interface to the generative runtime.
type Runtime interface {
	// Load brings the model into memory and returns a handle to it.
	Load(ctx context.Context, spec ModelSpec) (Handle, error)
	// Infer produces text for the prompt against a loaded model.
	Infer(ctx context.Context, h Handle, prompt string, maxTokens int) (string, error)
	// Unload releases the model's memory.
	Unload(ctx context.Context, h Handle) error
}

// Error is a runtime-level failure. Fatal indicates the runtime itself
// is unreachable or dead, so any loaded handle must be considered gone.
type Error struct {
	Op    string
	Fatal bool
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsFatal reports whether err carries a fatal runtime failure.
func IsFatal(err error) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Fatal
	}
	return false
}
