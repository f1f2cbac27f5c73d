package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/domain"
)

type stubService struct {
	result domain.AnswerResult
	err    error
	calls  int
}

func (s *stubService) Answer(_ context.Context, _ string) (domain.AnswerResult, error) {
	s.calls++
	if s.err != nil {
		return domain.AnswerResult{}, s.err
	}
	return s.result, nil
}

func TestEnterDispatchesAnswerCommand(t *testing.T) {
	svc := &stubService{result: domain.AnswerResult{
		Text:            "Use the reset link on the login page.",
		MatchedQuestion: "How do I reset my password?",
		Score:           0.9,
	}}
	m := New(svc, "banner")
	m.ready = true
	m.input.SetValue("password help")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd, "enter should dispatch a command, not block the update loop")
	assert.True(t, m.waiting)
	assert.Zero(t, svc.calls, "the service must not be called inside Update")
	assert.Empty(t, m.input.Value())

	msg := cmd()
	assert.Equal(t, 1, svc.calls)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.waiting)
	require.Len(t, m.history, 1)
	assert.Equal(t, "password help", m.history[0].query)
	assert.Equal(t, svc.result, m.history[0].result)
	assert.Contains(t, m.status, "Answered")
}

func TestEnterIgnoredWhileWaiting(t *testing.T) {
	svc := &stubService{}
	m := New(svc, "banner")
	m.ready = true
	m.waiting = true
	m.input.SetValue("another question")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.True(t, m.waiting)
	assert.Zero(t, svc.calls)
	assert.Empty(t, m.history)
}

func TestAnswerErrorSurfacesInStatus(t *testing.T) {
	svc := &stubService{err: domain.ErrInvalidInput}
	m := New(svc, "banner")
	m.ready = true

	updated, _ := m.Update(answerMsg{query: "q", err: domain.ErrInvalidInput})
	m = updated.(Model)
	assert.False(t, m.waiting)
	assert.Empty(t, m.history)
	assert.Contains(t, m.status, "type a question")
}
