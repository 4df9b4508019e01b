package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alanyang/agent-status/internal/domain/event"
	"github.com/alanyang/agent-status/internal/domain/loading"
)

// UpdateMsg carries a loading update received from the server.
type UpdateMsg loading.Update

// EventMsg carries a signal event received from the server.
type EventMsg event.Event

// ErrMsg ends the session with an error, typically a dropped connection.
type ErrMsg struct{ Err error }

// Model renders the agent status area of one conversation.
type Model struct {
	conversationID string
	spinner        spinner.Model

	update    loading.Update
	received  bool
	lastEvent *event.Event
	err       error
	quitting  bool
}

func New(conversationID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return Model{conversationID: conversationID, spinner: s}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case UpdateMsg:
		if msg.ConversationID != m.conversationID {
			return m, nil
		}
		m.update = loading.Update(msg)
		m.received = true
	case EventMsg:
		if msg.ConversationID != m.conversationID {
			return m, nil
		}
		e := event.Event(msg)
		m.lastEvent = &e
	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Loading reports whether the spinner is currently shown.
func (m Model) Loading() bool {
	return m.received && m.update.View.Loading
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("conversation " + m.conversationID))
	b.WriteString("\n")

	switch {
	case !m.received:
		b.WriteString(m.spinner.View() + " connecting…")
	case m.update.View.Loading:
		b.WriteString(m.spinner.View() + " " + m.update.View.TestID)
	default:
		b.WriteString(renderControls(m.update.View))
	}
	b.WriteString("\n")

	if m.lastEvent != nil {
		b.WriteString(eventStyle.Render(describe(*m.lastEvent)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if !m.quitting {
		b.WriteString(helpStyle.Render("q to quit"))
	}
	return b.String()
}

func renderControls(v loading.View) string {
	if len(v.Controls) == 0 {
		return idleStyle.Render("idle")
	}
	style := controlStyle
	if v.Disabled {
		style = disabledControlStyle
	}
	parts := make([]string, 0, len(v.Controls))
	for _, c := range v.Controls {
		parts = append(parts, style.Render(string(c)))
	}
	return strings.Join(parts, " ")
}

func describe(e event.Event) string {
	if e.Value == nil {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, *e.Value)
}
