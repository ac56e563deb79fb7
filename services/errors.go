package services

import (
	"errors"
	"fmt"
)

var (
	// ErrModelMismatch is returned when a query is embedded with a different
	// model than the one that built the FAQ index.
	ErrModelMismatch = errors.New("embedding model does not match the faq index")
	// ErrSessionNotFound is returned for unknown or deleted session ids.
	ErrSessionNotFound = errors.New("session not found")
)

// LoadError reports a FAQ source that cannot be turned into an index.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading faq from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExtractionError reports an uploaded file that could not be read as text.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FallbackError wraps a failure of the generative model.
type FallbackError struct {
	Attempts int
	Err      error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("fallback model failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }
