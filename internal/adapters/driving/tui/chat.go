// Package tui implements the interactive chat surface over the answer
// service, following the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
)

// answerReceived carries a completed answer back to the model.
type answerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// Chat is the Bubbletea model for the question session.
type Chat struct {
	styles  *Styles
	input   textinput.Model
	view    viewport.Model
	answers driving.AnswerService
	ctx     context.Context

	collection string
	sessionID  string
	history    []exchange
	waiting    bool
	ready      bool
	width      int
	height     int
}

// NewChat creates a chat model asking questions against the given
// collection.
func NewChat(answers driving.AnswerService, collection string) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.Focus()
	ti.CharLimit = 512

	return &Chat{
		styles:     NewStyles(nil),
		input:      ti,
		view:       viewport.New(80, 20),
		ctx:        context.Background(),
		answers:    answers,
		collection: collection,
		sessionID:  domain.NewSessionID(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for answer calls.
func (c *Chat) WithContext(ctx context.Context) *Chat {
	c.ctx = ctx
	return c
}

// Init initialises the model.
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.view.Width = msg.Width
		c.view.Height = msg.Height - 6 // header, input box, help line
		c.input.Width = msg.Width - 6
		c.ready = true
		c.view.SetContent(c.transcript())
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return c, tea.Quit
		case tea.KeyEnter:
			return c.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			c.view, cmd = c.view.Update(msg)
			return c, cmd
		default:
			// Fall through to the input.
		}

	case answerReceived:
		c.waiting = false
		c.history = append(c.history, exchange{
			question: msg.Question,
			answer:   msg.Answer,
			err:      msg.Err,
		})
		c.view.SetContent(c.transcript())
		c.view.GotoBottom()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// submit sends the current input as a question.
func (c *Chat) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(c.input.Value())
	if question == "" || c.waiting {
		return c, nil
	}

	c.input.SetValue("")
	c.waiting = true
	return c, c.ask(question)
}

// ask runs the answer call off the update loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.answers.Ask(c.ctx, question, domain.RetrievalOptions{})
		return answerReceived{Question: question, Answer: answer, Err: err}
	}
}

// transcript renders the question history.
func (c *Chat) transcript() string {
	if len(c.history) == 0 {
		return c.styles.Help.Render("No questions yet. Type below and press Enter.")
	}

	var b strings.Builder
	for i, ex := range c.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c.styles.Question.Render("You: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(c.styles.Error.Render("Error: " + ex.err.Error()))
			continue
		}
		b.WriteString(c.styles.Answer.Render(ex.answer.Text))
		for _, src := range ex.answer.Sources {
			line := fmt.Sprintf("  [%d] %s", src.SourceID, src.Filename)
			if src.Page != nil {
				line += fmt.Sprintf(", page %d", *src.Page)
			}
			b.WriteString("\n" + c.styles.Source.Render(line))
		}
	}
	return b.String()
}

// View renders the chat.
func (c *Chat) View() string {
	if !c.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(c.styles.Title.Render("docq chat") +
		c.styles.Help.Render("  collection: "+c.collection))
	b.WriteString("\n\n")
	b.WriteString(c.view.View())
	b.WriteString("\n")
	if c.waiting {
		b.WriteString(c.styles.Help.Render("Thinking..."))
	}
	b.WriteString("\n")
	b.WriteString(c.styles.Input.Width(c.width - 2).Render(c.input.View()))
	b.WriteString("\n")
	b.WriteString(c.styles.Help.Render("Enter: ask  ↑/↓: scroll  Esc: quit"))
	return b.String()
}
