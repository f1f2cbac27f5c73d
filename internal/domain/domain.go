package domain

import "context"

// Entry is a single question/answer pair from the FAQ corpus.
// Entries are immutable once loaded; identity is position in the corpus.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IndexedEntry pairs a corpus entry with its embedding vector.
// An empty vector marks an entry whose embedding could not be computed;
// such entries always score 0 during ranking.
type IndexedEntry struct {
	Entry  Entry
	Vector []float64
}

// ScoredEntry is a corpus entry with its similarity to a query.
type ScoredEntry struct {
	Entry Entry
	Score float64
}

// AnswerResult is the outcome of answering a single query.
// MatchedQuestion is empty when no confident match was found.
// Score carries the top similarity even when Text is a fallback or
// degraded message, so callers can tell how retrieval went.
type AnswerResult struct {
	Text            string
	MatchedQuestion string
	Score           float64
}

// EmbeddingProvider converts free text into a numeric vector representation.
// Implementations must be safe for concurrent use.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// CompletionProvider generates text from a prompt.
// Implementations must be safe for concurrent use.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
