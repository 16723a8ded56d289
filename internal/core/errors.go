// ABOUTME: Sentinel errors raised by the reader core
// ABOUTME: Callers match them with errors.Is to pick a user-facing message
package core

import "errors"

var (
	// ErrEmptyQuestion rejects blank questions before any I/O
	ErrEmptyQuestion = errors.New("question is required and must be a non-empty string")
	// ErrEmptyEmbeddingText rejects blank embedding input before calling out
	ErrEmptyEmbeddingText = errors.New("text for embedding cannot be empty")
	// ErrInvalidSearchParams is wrapped with the name of the offending parameter
	ErrInvalidSearchParams = errors.New("invalid search parameters")
	ErrEmbeddingFailed     = errors.New("failed to generate embedding")
	ErrSearchFailed        = errors.New("failed to search for similar documents")
	ErrGenerationFailed    = errors.New("failed to generate response")
)
