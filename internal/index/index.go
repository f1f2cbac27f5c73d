package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"faqbot/internal/domain"
)

// Index holds the corpus entries and their precomputed embedding vectors.
// It is built once at startup and read-only afterwards, so concurrent
// ranking needs no locking.
type Index struct {
	entries []domain.IndexedEntry
}

// EmbedInput builds the text embedded for a corpus entry.
func EmbedInput(e domain.Entry) string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", e.Question, e.Answer)
}

// Build embeds every corpus entry once. An embedding failure for an entry
// records the empty-vector sentinel instead of aborting: that entry will
// rank at 0 but the service still starts. One provider call per entry,
// no retries.
func Build(ctx context.Context, entries []domain.Entry, embedder domain.EmbeddingProvider, logger *zap.Logger) (*Index, error) {
	if len(entries) == 0 {
		return nil, errors.New("corpus contains no entries")
	}
	indexed := make([]domain.IndexedEntry, 0, len(entries))
	for i, e := range entries {
		vec, err := embedder.Embed(ctx, EmbedInput(e))
		if err != nil {
			logger.Warn("embedding failed for corpus entry",
				zap.Int("entry", i),
				zap.String("question", e.Question),
				zap.Error(err))
			vec = nil
		}
		indexed = append(indexed, domain.IndexedEntry{Entry: e, Vector: vec})
	}
	return &Index{entries: indexed}, nil
}

// Len reports the number of indexed entries.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns a copy of the indexed entries in corpus order.
// Vectors are copied too, so callers cannot mutate the index.
func (ix *Index) Entries() []domain.IndexedEntry {
	out := make([]domain.IndexedEntry, len(ix.entries))
	for i, ie := range ix.entries {
		vec := make([]float64, len(ie.Vector))
		copy(vec, ie.Vector)
		out[i] = domain.IndexedEntry{Entry: ie.Entry, Vector: vec}
	}
	return out
}

// Rank scores every indexed entry against the query vector and returns
// them in descending score order. The sort is stable, so entries with
// equal scores keep their original corpus order and ranking stays
// deterministic for identical inputs.
func (ix *Index) Rank(queryVec []float64) []domain.ScoredEntry {
	scored := make([]domain.ScoredEntry, 0, len(ix.entries))
	for _, ie := range ix.entries {
		scored = append(scored, domain.ScoredEntry{
			Entry: ie.Entry,
			Score: Cosine(queryVec, ie.Vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Cosine returns the cosine similarity of a and b. Empty, zero-norm or
// length-mismatched operands score 0 rather than producing NaN.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	normA := vectorNorm(a)
	normB := vectorNorm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
