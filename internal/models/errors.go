package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a client-fixable request problem. It is raised
// before any state is touched, so a 400 never has side effects.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// KnowledgeLoadError wraps a failure to load a mandatory knowledge document.
// It is fatal for the request and surfaces as a 500.
type KnowledgeLoadError struct {
	Document string
	Err      error
}

func (e *KnowledgeLoadError) Error() string {
	return fmt.Sprintf("knowledge document %q: %v", e.Document, e.Err)
}

func (e *KnowledgeLoadError) Unwrap() error { return e.Err }

// ErrGenerationUnavailable means the generation dependency was missing at
// init. Requests still complete with a degraded 503 reply.
var ErrGenerationUnavailable = errors.New("generation service unavailable")
