package domain

import "errors"

// Sentinel errors shared across the pipeline.
var (
	// ErrUnsupportedFileType means no parser is registered for the
	// file's extension. Fatal for that single file, never for a batch.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidInput means a required argument was missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable means the embedding provider is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable means the LLM provider is not configured or
	// unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrNotFound means the requested document or chunk is not indexed.
	ErrNotFound = errors.New("not found")
)
