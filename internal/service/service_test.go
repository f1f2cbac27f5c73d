package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faqbot/internal/domain"
	"faqbot/internal/index"
)

type stubEmbedder struct {
	vectors map[string][]float64 // keyed by input text; misses fall back to fixed
	fixed   []float64
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fixed, nil
}

type stubCompleter struct {
	resp       string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.resp, nil
}

func buildIndex(t *testing.T, entries []domain.Entry, emb *stubEmbedder) *index.Index {
	t.Helper()
	ix, err := index.Build(context.Background(), entries, emb, zap.NewNop())
	require.NoError(t, err)
	emb.calls = 0 // count only query-time invocations from here on
	return ix
}

func TestAnswerRejectsBlankQuery(t *testing.T) {
	entries := []domain.Entry{{Question: "q", Answer: "a"}}
	emb := &stubEmbedder{fixed: []float64{1, 0}}
	comp := &stubCompleter{resp: "hi"}
	ix := buildIndex(t, entries, emb)
	svc := New(emb, ix, NewComposer(comp, 0.5, zap.NewNop()), zap.NewNop())

	for _, query := range []string{"", "   ", "\t\n"} {
		res, err := svc.Answer(context.Background(), query)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, res)
	}
	assert.Zero(t, emb.calls, "no embedding call should be attempted for a blank query")
	assert.Zero(t, comp.calls, "no completion call should be attempted for a blank query")
}

func TestAnswerFallsBackWhenQueryEmbeddingFails(t *testing.T) {
	entries := []domain.Entry{{Question: "q", Answer: "a"}}
	emb := &stubEmbedder{fixed: []float64{1, 0}}
	comp := &stubCompleter{resp: "hi"}
	ix := buildIndex(t, entries, emb)
	emb.err = domain.ErrEmbeddingUnavailable
	svc := New(emb, ix, NewComposer(comp, 0.5, zap.NewNop()), zap.NewNop())

	res, err := svc.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "could not find a close match")
	assert.Empty(t, res.MatchedQuestion)
	assert.Zero(t, res.Score)
	assert.Zero(t, comp.calls, "no completion call should follow an embedding failure")
}

func TestAnswerDegradesWhenCompletionFails(t *testing.T) {
	entries := []domain.Entry{{Question: "How do I reset my password?", Answer: "Use the reset link."}}
	emb := &stubEmbedder{
		vectors: map[string][]float64{index.EmbedInput(entries[0]): {1, 0}},
		fixed:   []float64{0.9, math.Sqrt(1 - 0.9*0.9)}, // cosine 0.9 against the entry
	}
	comp := &stubCompleter{err: domain.ErrCompletionUnavailable}
	ix := buildIndex(t, entries, emb)
	svc := New(emb, ix, NewComposer(comp, 0.5, zap.NewNop()), zap.NewNop())

	res, err := svc.Answer(context.Background(), "password help")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Score, 1e-9)
	assert.Equal(t, "How do I reset my password?", res.MatchedQuestion)
	assert.Contains(t, res.Text, "could not reach")
	assert.NotContains(t, res.Text, "Use the reset link.")
	assert.Equal(t, 1, comp.calls)
}

func TestAnswerEndToEnd(t *testing.T) {
	entries := []domain.Entry{{
		Question: "How do I reset my password?",
		Answer:   "Use the reset link on the login page.",
	}}
	// Identical vectors for identical text: every input maps to the same
	// embedding, so the single entry matches the query at exactly 1.0.
	emb := &stubEmbedder{fixed: []float64{1, 2, 3}}
	comp := &stubCompleter{resp: "Just use the reset link on the login page and you're set!"}
	ix := buildIndex(t, entries, emb)
	svc := New(emb, ix, NewComposer(comp, 0.5, zap.NewNop()), zap.NewNop())

	res, err := svc.Answer(context.Background(), "How do I reset my password?")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.Equal(t, "How do I reset my password?", res.MatchedQuestion)
	assert.Equal(t, comp.resp, res.Text)
	assert.Equal(t, 1, emb.calls)
	assert.Contains(t, comp.lastPrompt, "How do I reset my password?")
	assert.Contains(t, comp.lastPrompt, "Use the reset link on the login page.")
}

func TestComposeEmptyRankedList(t *testing.T) {
	comp := &stubCompleter{resp: "hi"}
	c := NewComposer(comp, 0.5, zap.NewNop())

	res := c.Compose(context.Background(), "query", nil)
	assert.Contains(t, res.Text, "could not find a close match")
	assert.Empty(t, res.MatchedQuestion)
	assert.Zero(t, res.Score)
	assert.Zero(t, comp.calls)
}

func TestComposeBelowThreshold(t *testing.T) {
	comp := &stubCompleter{resp: "hi"}
	c := NewComposer(comp, 0.5, zap.NewNop())
	ranked := []domain.ScoredEntry{{
		Entry: domain.Entry{Question: "q", Answer: "a"},
		Score: 0.3,
	}}

	res := c.Compose(context.Background(), "query", ranked)
	assert.Contains(t, res.Text, "could not find a close match")
	assert.Empty(t, res.MatchedQuestion)
	assert.InDelta(t, 0.3, res.Score, 1e-9)
	assert.Zero(t, comp.calls)
}

func TestComposeRetrievalOnlyWithoutCompleter(t *testing.T) {
	c := NewComposer(nil, 0.5, zap.NewNop())
	ranked := []domain.ScoredEntry{{
		Entry: domain.Entry{Question: "q", Answer: "the stored answer"},
		Score: 0.8,
	}}

	res := c.Compose(context.Background(), "query", ranked)
	assert.Equal(t, "the stored answer", res.Text)
	assert.Equal(t, "q", res.MatchedQuestion)
	assert.InDelta(t, 0.8, res.Score, 1e-9)
}

func TestNewComposerDefaultsThreshold(t *testing.T) {
	c := NewComposer(nil, 0, zap.NewNop())
	assert.InDelta(t, DefaultThreshold, c.threshold, 1e-9)
}
