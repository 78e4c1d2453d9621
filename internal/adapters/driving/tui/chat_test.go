package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

type stubAnswerService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (s *stubAnswerService) Ask(_ context.Context, question string, _ domain.RetrievalOptions) (*domain.Answer, error) {
	s.question = question
	return s.answer, s.err
}

func (s *stubAnswerService) AskStream(ctx context.Context, question string, opts domain.RetrievalOptions, onToken func(string)) (*domain.Answer, error) {
	answer, err := s.Ask(ctx, question, opts)
	if err == nil && onToken != nil {
		onToken(answer.Text)
	}
	return answer, err
}

func newTestChat(answers *stubAnswerService) *Chat {
	chat := NewChat(answers, "documents")
	chat.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return chat
}

func TestNewChat_Defaults(t *testing.T) {
	chat := NewChat(&stubAnswerService{}, "manuals")

	require.NotNil(t, chat)
	assert.Equal(t, "manuals", chat.collection)
	assert.NotEmpty(t, chat.sessionID)
	assert.False(t, chat.waiting)
}

func TestChat_View_NotReady(t *testing.T) {
	chat := NewChat(&stubAnswerService{}, "documents")

	assert.Equal(t, "Initialising...", chat.View())
}

func TestChat_Update_WindowSize(t *testing.T) {
	chat := NewChat(&stubAnswerService{}, "documents")

	model, cmd := chat.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, chat, model)
	assert.Nil(t, cmd)
	assert.True(t, chat.ready)
	assert.Equal(t, 100, chat.width)
}

func TestChat_Submit_SendsQuestion(t *testing.T) {
	svc := &stubAnswerService{answer: &domain.Answer{Text: "42"}}
	chat := newTestChat(svc)
	chat.input.SetValue("what is the answer?")

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, chat.waiting)
	assert.Empty(t, chat.input.Value())

	msg := cmd()
	received, ok := msg.(answerReceived)
	require.True(t, ok)
	assert.Equal(t, "what is the answer?", received.Question)
	assert.Equal(t, "42", received.Answer.Text)
}

func TestChat_Submit_EmptyInputIgnored(t *testing.T) {
	chat := newTestChat(&stubAnswerService{})
	chat.input.SetValue("   ")

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, chat.waiting)
}

func TestChat_Submit_IgnoredWhileWaiting(t *testing.T) {
	chat := newTestChat(&stubAnswerService{})
	chat.waiting = true
	chat.input.SetValue("second question")

	_, cmd := chat.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, "second question", chat.input.Value())
}

func TestChat_AnswerReceived_AppendsHistory(t *testing.T) {
	chat := newTestChat(&stubAnswerService{})
	chat.waiting = true

	page := 3
	chat.Update(answerReceived{
		Question: "where is the reset switch?",
		Answer: &domain.Answer{
			Text: "On the back panel.",
			Sources: []domain.SourceRef{
				{SourceID: 1, Filename: "manual.pdf", Page: &page},
			},
		},
	})

	assert.False(t, chat.waiting)
	require.Len(t, chat.history, 1)

	view := chat.View()
	assert.Contains(t, view, "where is the reset switch?")
	assert.Contains(t, view, "On the back panel.")
	assert.Contains(t, view, "manual.pdf")
}

func TestChat_AnswerReceived_Error(t *testing.T) {
	chat := newTestChat(&stubAnswerService{})

	chat.Update(answerReceived{
		Question: "anything?",
		Err:      errors.New("generation failed"),
	})

	assert.Contains(t, chat.View(), "generation failed")
}

func TestChat_Quit(t *testing.T) {
	chat := newTestChat(&stubAnswerService{})

	for _, keyType := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := chat.Update(tea.KeyMsg{Type: keyType})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestChat_WithContext(t *testing.T) {
	chat := NewChat(&stubAnswerService{}, "documents")

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, chat, chat.WithContext(ctx))
	assert.Equal(t, ctx, chat.ctx)
}
