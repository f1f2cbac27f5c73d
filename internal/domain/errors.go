package domain

import "errors"

var (
	// ErrInvalidInput is returned for an empty or whitespace-only query.
	// It is the only error the answering service surfaces to callers.
	ErrInvalidInput = errors.New("query is empty")

	// ErrEmbeddingUnavailable wraps embedding provider failures and
	// malformed embedding payloads.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrCompletionUnavailable wraps completion provider failures.
	ErrCompletionUnavailable = errors.New("completion provider unavailable")
)
