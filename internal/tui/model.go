// Package tui implements the interactive tutoring session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/orchestrator"
)

// Tutor is the TUI-facing subset of the orchestrator.
type Tutor interface {
	HandleQuery(ctx context.Context, query string, opts orchestrator.Options) (domain.QueryResult, error)
	ModelStatus() domain.ModelStatus
}

type resultMsg struct {
	result domain.QueryResult
	err    error
}

// Model is the Bubble Tea model for the tutoring session.
type Model struct {
	ctx      context.Context
	service  Tutor
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	busy     bool
	ready    bool
	status   string
	history  strings.Builder
}

// New creates a session model over the given tutor.
func New(ctx context.Context, service Tutor) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(0, 0)
	return &Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		status:   "Ready. Ask anything from your course material.",
	}
}

// Run starts the session and blocks until it exits.
func Run(ctx context.Context, service Tutor) error {
	_, err := tea.NewProgram(New(ctx, service), tea.WithContext(ctx)).Run()
	return err
}

// Init starts the text-input cursor blink.
func (m *Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and query-result events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		height := msg.Height - 5
		if height < 3 {
			height = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = height
		m.viewport.SetContent(m.history.String())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.busy {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.status = "Thinking..."
			fmt.Fprintf(&m.history, "%s\n", questionStyle.Render("You: "+query))
			m.viewport.SetContent(m.history.String())
			m.viewport.GotoBottom()
			return m, tea.Batch(m.spinner.Tick, m.ask(query))
		}

	case resultMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			fmt.Fprintf(&m.history, "%s\n\n", errorStyle.Render("Something went wrong; please try again."))
		} else {
			m.status = statusLine(m.service.ModelStatus())
			m.history.WriteString(renderResult(msg.result))
		}
		m.viewport.SetContent(m.history.String())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the session layout.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("pathshala — ask your textbook")
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" +
		resultBoxStyle.Render(m.viewport.View()) + "\n" +
		queryBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(status)
}

func (m *Model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.service.HandleQuery(m.ctx, query, orchestrator.Options{})
		return resultMsg{result: result, err: err}
	}
}

func statusLine(status domain.ModelStatus) string {
	return fmt.Sprintf("model: %s · idle timeout: %s", status.State, status.IdleTimeout)
}

func renderResult(result domain.QueryResult) string {
	var b strings.Builder
	b.WriteString(answerStyle.Render(result.AnswerText))
	b.WriteString("\n")
	for _, ref := range result.SourceReferences {
		fmt.Fprintf(&b, "%s\n", referenceStyle.Render(fmt.Sprintf("source: %s, chapter %d, p. %d", ref.Subject, ref.Chapter, ref.Page)))
	}
	for _, d := range result.Diagrams {
		fmt.Fprintf(&b, "%s\n", referenceStyle.Render("diagram: "+d))
	}
	for i, item := range result.Quiz {
		fmt.Fprintf(&b, "%s\n", quizStyle.Render(fmt.Sprintf("Q%d: %s", i+1, item.Question)))
		for j, opt := range item.Options {
			fmt.Fprintf(&b, "%s\n", quizStyle.Render(fmt.Sprintf("  %c) %s", 'a'+j, opt)))
		}
	}
	b.WriteString("\n")
	return b.String()
}
