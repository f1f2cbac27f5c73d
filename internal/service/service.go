package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"faqbot/internal/domain"
	"faqbot/internal/index"
)

// DefaultThreshold is the minimum similarity for a match to be considered
// confident. Carried over from the original tuning; treat it as a policy
// knob, not a proven constant.
const DefaultThreshold = 0.5

const (
	noMatchText = "I could not find a close match. Please rephrase or ask a team member."

	degradedText = "I found a similar answer but could not reach the AI writer. " +
		"Please try again later."
)

// Composer decides whether the top-ranked entry is a confident match and,
// if so, grounds a completion on its stored answer. A nil completion
// provider makes the composer retrieval-only: confident matches return
// the stored answer verbatim.
type Composer struct {
	completer domain.CompletionProvider
	threshold float64
	logger    *zap.Logger
}

// NewComposer creates a composer with the given confidence threshold.
func NewComposer(completer domain.CompletionProvider, threshold float64, logger *zap.Logger) *Composer {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Composer{completer: completer, threshold: threshold, logger: logger}
}

// Compose turns a ranked list into the final answer. Completion failures
// degrade the text but keep the retrieval metadata, so callers can tell
// that matching succeeded even though generation did not.
func (c *Composer) Compose(ctx context.Context, query string, ranked []domain.ScoredEntry) domain.AnswerResult {
	if len(ranked) == 0 {
		return domain.AnswerResult{Text: noMatchText}
	}
	top := ranked[0]
	if top.Score < c.threshold {
		c.logger.Info("no confident match",
			zap.Float64("top_score", top.Score),
			zap.Float64("threshold", c.threshold))
		return domain.AnswerResult{Text: noMatchText, Score: top.Score}
	}
	if c.completer == nil {
		return domain.AnswerResult{
			Text:            top.Entry.Answer,
			MatchedQuestion: top.Entry.Question,
			Score:           top.Score,
		}
	}
	text, err := c.completer.Complete(ctx, buildPrompt(query, top.Entry.Answer))
	if err != nil {
		c.logger.Warn("completion failed, returning degraded answer", zap.Error(err))
		return domain.AnswerResult{
			Text:            degradedText,
			MatchedQuestion: top.Entry.Question,
			Score:           top.Score,
		}
	}
	return domain.AnswerResult{
		Text:            text,
		MatchedQuestion: top.Entry.Question,
		Score:           top.Score,
	}
}

func buildPrompt(query, contextAnswer string) string {
	var b strings.Builder
	b.WriteString("You are a helpful FAQ assistant. Use the provided answer as trusted")
	b.WriteString(" context to respond to the user's question. If the context does not")
	b.WriteString(" cover the question, say you are unsure and ask the user to rephrase.\n\n")
	b.WriteString("Context answer: ")
	b.WriteString(contextAnswer)
	b.WriteString("\nUser question: ")
	b.WriteString(query)
	b.WriteString("\nRespond in 2-3 friendly sentences.")
	return b.String()
}

// Service answers queries against the corpus index. Provider outages
// degrade answers, never availability: the only error Answer returns is
// domain.ErrInvalidInput for a blank query.
type Service struct {
	embedder domain.EmbeddingProvider
	idx      *index.Index
	composer *Composer
	logger   *zap.Logger
}

// New wires the answering service.
func New(embedder domain.EmbeddingProvider, idx *index.Index, composer *Composer, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, idx: idx, composer: composer, logger: logger}
}

// Answer embeds the query, ranks the corpus and composes the response.
// A query embedding failure is terminal for the request (no ranking is
// possible without a query vector) and yields the no-match fallback.
func (s *Service) Answer(ctx context.Context, query string) (domain.AnswerResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.AnswerResult{}, domain.ErrInvalidInput
	}
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, returning fallback answer", zap.Error(err))
		return domain.AnswerResult{Text: noMatchText}, nil
	}
	ranked := s.idx.Rank(queryVec)
	return s.composer.Compose(ctx, query, ranked), nil
}
