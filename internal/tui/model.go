package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faqbot/internal/domain"
)

// AnswerPort is the TUI-facing subset of the answering service.
type AnswerPort interface {
	Answer(ctx context.Context, query string) (domain.AnswerResult, error)
}

type exchange struct {
	query  string
	result domain.AnswerResult
}

// answerMsg carries the outcome of an asynchronous service call back
// into the update loop.
type answerMsg struct {
	query  string
	result domain.AnswerResult
	err    error
}

func answerCmd(service AnswerPort, query string) tea.Cmd {
	return func() tea.Msg {
		res, err := service.Answer(context.Background(), query)
		return answerMsg{query: query, result: res, err: err}
	}
}

// Model is the Bubble Tea model for the FAQ chat.
type Model struct {
	service  AnswerPort
	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	banner   string
	status   string
	ready    bool
	waiting  bool
}

// New creates a new TUI model instance.
func New(service AnswerPort, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, banner: banner, status: "Corpus loaded. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and query boxes
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + banner
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderHistory())
		return m, nil
	case answerMsg:
		m.waiting = false
		switch {
		case errors.Is(msg.err, domain.ErrInvalidInput):
			m.status = "Please type a question first."
		case msg.err != nil:
			m.status = "Error: " + msg.err.Error()
		default:
			m.history = append(m.history, exchange{query: msg.query, result: msg.result})
			m.status = fmt.Sprintf("Answered %q (score %.3f)", msg.query, msg.result.Score)
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = fmt.Sprintf("Answering %q...", q)
				m.input.SetValue("")
				return m, answerCmd(m.service, q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and conversation history.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("FAQ Bot")
	banner := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.banner)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answers := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + banner + "\n" + answers + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "No questions yet."
	}
	var parts []string
	for _, ex := range m.history {
		block := questionStyle.Render("You: "+ex.query) + "\n" + ex.result.Text
		if ex.result.MatchedQuestion != "" {
			block += "\n" + matchStyle.Render(
				fmt.Sprintf("matched %q (score %.3f)", ex.result.MatchedQuestion, ex.result.Score))
		}
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n\n")
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	matchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
