// Package mailboxtree renders the mailbox sidebar and tracks which
// mailbox is selected.
package mailboxtree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/keys"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// SelectedMailboxMsg is sent when the user opens a mailbox.
type SelectedMailboxMsg struct {
	Mailbox model.Mailbox
}

// Model is the mailbox sidebar component.
type Model struct {
	mailboxes []model.Mailbox
	cursor    int
	keys      *keys.KeyMap
	width     int
	height    int
	focused   bool
}

// New creates an empty mailbox tree.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetMailboxes replaces the mailbox list, keeping the cursor on the
// same mailbox when it still exists.
func (m *Model) SetMailboxes(mailboxes []model.Mailbox) {
	var selectedID string
	if m.cursor < len(m.mailboxes) {
		selectedID = m.mailboxes[m.cursor].ID
	}

	m.mailboxes = mailboxes
	m.cursor = 0
	for i, mb := range mailboxes {
		if mb.ID == selectedID {
			m.cursor = i
			break
		}
	}
}

// Selected returns the mailbox under the cursor.
func (m Model) Selected() (model.Mailbox, bool) {
	if m.cursor >= len(m.mailboxes) {
		return model.Mailbox{}, false
	}
	return m.mailboxes[m.cursor], true
}

// SetFocused toggles whether the sidebar consumes navigation keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key input while the sidebar is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.mailboxes)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Select):
		if mb, ok := m.Selected(); ok {
			return m, func() tea.Msg {
				return SelectedMailboxMsg{Mailbox: mb}
			}
		}
	}
	return m, nil
}

// View renders the sidebar.
func (m Model) View() string {
	if len(m.mailboxes) == 0 {
		return theme.MutedStyle.Render("Loading mailboxes...")
	}

	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("Mailboxes"))
	sb.WriteString("\n\n")

	for i, mb := range m.mailboxes {
		indent := ""
		if mb.ParentID != "" {
			indent = "  "
		}

		line := fmt.Sprintf("%s%s %s", indent, theme.MailboxIcon(strings.ToLower(mb.Role)), mb.DisplayName())
		if mb.UnreadEmails > 0 {
			line += " " + theme.UnreadStyle.Render("("+mb.UnreadDisplay()+")")
		}

		if i == m.cursor && m.focused {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = lipgloss.NewStyle().PaddingLeft(1).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(sb.String())
}
