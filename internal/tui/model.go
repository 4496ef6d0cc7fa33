// Package tui implements the interactive chat for tanya with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyperjump/tanya/internal/models"
)

// Backend is the chat-facing subset of a document session.
type Backend interface {
	// Load extracts source and makes it the current document.
	Load(ctx context.Context, source string) (*models.Status, error)
	Ask(ctx context.Context, query string) (*models.Answer, error)
	Clear()
}

const helpText = "Commands: /new <file|url> load a document, /clear forget it, /quit exit."

type entryKind int

const (
	entryQuestion entryKind = iota
	entryAnswer
	entryInfo
	entryError
)

type entry struct {
	kind entryKind
	text string
}

type answerMsg struct {
	answer *models.Answer
	err    error
}

type loadedMsg struct {
	source string
	status *models.Status
	err    error
}

// Model is the Bubble Tea model for the chat.
type Model struct {
	backend  Backend
	ctx      context.Context
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	entries  []entry
	busy     bool
	ready    bool
	source   string
	status   string
}

// New creates a chat model. source is the document already loaded, if any.
func New(ctx context.Context, backend Backend, source string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /new <file|url>"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	status := "No document loaded. " + helpText
	if source != "" {
		status = "Ready. " + helpText
	}
	return Model{
		backend:  backend,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		source:   source,
		status:   status,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and backend events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		bw, bh := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header lines, status, input box
		m.viewport.Width = max(20, msg.Width-bw)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.push(entryError, msg.err.Error())
			m.status = "Error."
		} else {
			m.push(entryAnswer, msg.answer.Text)
			m.status = fmt.Sprintf("Answered in %dms from %d segment(s).", msg.answer.TookMs, len(msg.answer.Sources))
		}
		return m, nil

	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.push(entryError, fmt.Sprintf("could not load %s: %v", msg.source, msg.err))
			m.status = "Load failed; previous document kept."
			return m, nil
		}
		m.source = msg.status.Source
		m.push(entryInfo, fmt.Sprintf("Loaded %s (%d segments).", msg.status.Source, msg.status.Segments))
		m.status = "Ready."
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			return m.submit(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.push(entryInfo, helpText)
		return m, nil
	case "/clear":
		m.backend.Clear()
		m.source = ""
		m.entries = nil
		m.push(entryInfo, "Document cleared.")
		m.status = "No document loaded. " + helpText
		return m, nil
	case "/new":
		src := strings.TrimSpace(arg)
		if src == "" {
			m.push(entryError, "usage: /new <file|url>")
			return m, nil
		}
		m.busy = true
		m.status = "Loading " + src + "..."
		return m, tea.Batch(m.spinner.Tick, m.load(src))
	}

	if strings.HasPrefix(line, "/") {
		m.push(entryError, "unknown command "+cmd+". "+helpText)
		return m, nil
	}
	m.push(entryQuestion, line)
	m.busy = true
	m.status = "Thinking..."
	return m, tea.Batch(m.spinner.Tick, m.ask(line))
}

func (m Model) ask(query string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		a, err := backend.Ask(ctx, query)
		return answerMsg{answer: a, err: err}
	}
}

func (m Model) load(source string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		st, err := backend.Load(ctx, source)
		return loadedMsg{source: source, status: st, err: err}
	}
}

func (m *Model) push(kind entryKind, text string) {
	m.entries = append(m.entries, entry{kind: kind, text: text})
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("tanya")
	src := m.source
	if src == "" {
		src = "no document"
	}
	summary := mutedStyle.Render(src)
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + summary + "\n" +
		transcriptBoxStyle.Render(m.viewport.View()) + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(status)
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("Ask a question about the document.")
	}
	width := m.viewport.Width
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.kind {
		case entryQuestion:
			b.WriteString(questionStyle.Width(width).Render("You: " + e.text))
		case entryAnswer:
			b.WriteString(answerStyle.Width(width).Render(e.text))
		case entryError:
			b.WriteString(errorStyle.Width(width).Render(e.text))
		default:
			b.WriteString(mutedStyle.Width(width).Render(e.text))
		}
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	mutedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle        = lipgloss.NewStyle()
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
