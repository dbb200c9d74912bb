// Package searchview implements the search overlay: a query input over
// a ranked result list.
package searchview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/search"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// resultLimit caps how many ranked matches are shown.
const resultLimit = 50

// OpenEmailMsg is sent when the user opens a search result.
type OpenEmailMsg struct {
	Email model.Email
}

// CloseMsg is sent when the user dismisses the search view.
type CloseMsg struct{}

// Model is the search overlay component.
type Model struct {
	input   textinput.Model
	emails  []model.Email
	results []model.Email
	cursor  int
	width   int
	height  int
}

// New creates the search view.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "search subject, sender, or preview..."
	ti.Prompt = "/ "
	ti.Width = width - 4

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetEmails replaces the haystack searched by the view and re-runs the
// current query.
func (m *Model) SetEmails(emails []model.Email) {
	m.emails = emails
	m.rank()
}

// Focus activates the query input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	m.cursor = 0
	m.rank()
	return m.input.Focus()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}

// rank recomputes results for the current query. An empty query shows
// the most recent emails rather than nothing.
func (m *Model) rank() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if query == "" {
		if len(m.emails) > resultLimit {
			m.results = m.emails[:resultLimit]
		} else {
			m.results = m.emails
		}
	} else {
		m.results = search.Rank(query, m.emails, resultLimit)
	}
	if m.cursor >= len(m.results) {
		m.cursor = 0
	}
}

// Update handles key input for the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return CloseMsg{} }

	case "enter":
		if m.cursor < len(m.results) {
			email := m.results[m.cursor]
			return m, func() tea.Msg { return OpenEmailMsg{Email: email} }
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.rank()
	return m, cmd
}

// View renders the overlay.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("Search"))
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	if len(m.results) == 0 {
		sb.WriteString(theme.MutedStyle.Render("No matches."))
	}

	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.results) && i < start+visible; i++ {
		email := m.results[i]
		line := fmt.Sprintf("%s  %s %s",
			truncate(email.FromDisplay(), 18),
			truncate(email.Subject, 48),
			theme.MutedStyle.Render(email.RelativeDate()))
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = lipgloss.NewStyle().PaddingLeft(1).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(theme.HelpStyle.Render("enter open · esc close"))

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s
}
