// Package preview renders a single opened email with headers, body, and
// attachments in a scrollable viewport.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/htmltext"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// Model is the email preview component.
type Model struct {
	viewport viewport.Model
	renderer *htmltext.Renderer
	email    model.Email
	hasEmail bool
	width    int
	height   int
}

// New creates an empty preview pane.
func New(width, height int) Model {
	vp := viewport.New(width, height)
	return Model{
		viewport: vp,
		renderer: htmltext.NewRenderer(),
		width:    width,
		height:   height,
	}
}

// SetEmail loads an email into the pane and resets scroll position.
func (m *Model) SetEmail(email model.Email) {
	m.email = email
	m.hasEmail = true
	m.viewport.SetContent(m.render())
	m.viewport.GotoTop()
}

// Email returns the currently shown email.
func (m Model) Email() (model.Email, bool) {
	return m.email, m.hasEmail
}

// Clear empties the pane.
func (m *Model) Clear() {
	m.hasEmail = false
	m.viewport.SetContent("")
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	if m.hasEmail {
		m.viewport.SetContent(m.render())
	}
}

// Update forwards scroll keys to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the pane.
func (m Model) View() string {
	if !m.hasEmail {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorMuted).
			Render("Select an email to read it.")
	}
	return m.viewport.View()
}

// render lays out headers, the AI summary when present, the body, and
// attachments.
func (m Model) render() string {
	var sb strings.Builder

	subject := m.email.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	sb.WriteString(theme.TitleStyle.Render(subject))
	sb.WriteString("\n")

	sb.WriteString(theme.MutedStyle.Render("From: "))
	sb.WriteString(m.email.FromDisplay())
	if from := m.email.FromEmail(); from != "" {
		sb.WriteString(theme.MutedStyle.Render(" <" + from + ">"))
	}
	sb.WriteString("\n")

	sb.WriteString(theme.MutedStyle.Render("To:   "))
	sb.WriteString(m.email.ToDisplay())
	sb.WriteString("\n")

	sb.WriteString(theme.MutedStyle.Render("Date: "))
	sb.WriteString(m.email.DateDisplay())
	sb.WriteString("\n\n")

	if m.email.AISummary != "" {
		sb.WriteString(theme.AITitleStyle.Render("AI Summary"))
		sb.WriteString("\n")
		sb.WriteString(m.email.AISummary)
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.bodyText())

	if len(m.email.Attachments) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(theme.TitleStyle.Render("Attachments"))
		sb.WriteString("\n")
		for _, att := range m.email.Attachments {
			sb.WriteString(fmt.Sprintf("  📎 %s (%s)\n", att.Name, att.SizeDisplay()))
		}
	}

	return lipgloss.NewStyle().Width(m.width - 2).Render(sb.String())
}

// bodyText prefers the plain text body, falls back to stripped HTML,
// then to the preview snippet.
func (m Model) bodyText() string {
	if m.email.BodyText != "" {
		return strings.TrimSpace(m.email.BodyText)
	}
	if m.email.BodyHTML != "" {
		text, err := m.renderer.Render(m.email.BodyHTML)
		if err == nil && text != "" {
			return text
		}
	}
	if m.email.Preview != "" {
		return m.email.Preview
	}
	return theme.MutedStyle.Render("(empty message)")
}
