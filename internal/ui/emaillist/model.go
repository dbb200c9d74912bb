// Package emaillist renders the message table for the current mailbox.
package emaillist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/keys"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// EmailsLoadedMsg is sent when a mailbox's emails have been fetched.
type EmailsLoadedMsg struct {
	MailboxID string
	Emails    []model.Email
}

// SelectedEmailMsg is sent when the user opens an email.
type SelectedEmailMsg struct {
	Email model.Email
}

// ActionMsg asks the app to perform a mailbox action on an email.
type ActionMsg struct {
	Action Action
	Email  model.Email
}

// Action identifies a mailbox operation triggered from the list.
type Action int

const (
	ActionArchive Action = iota
	ActionDelete
	ActionToggleStar
	ActionToggleRead
)

// Model is the email list component.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	emails  []model.Email
	width   int
	height  int
	focused bool
}

// New creates an empty email list.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{Width: width}
	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Inbox"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.TitleStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetTitle changes the list heading, normally the mailbox name.
func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

// SetEmails replaces the visible emails.
func (m *Model) SetEmails(emails []model.Email) tea.Cmd {
	m.emails = emails
	items := make([]list.Item, len(emails))
	for i, email := range emails {
		items[i] = EmailItem{Email: email}
	}
	return m.list.SetItems(items)
}

// Selected returns the email under the cursor.
func (m Model) Selected() (model.Email, bool) {
	item, ok := m.list.SelectedItem().(EmailItem)
	if !ok {
		return model.Email{}, false
	}
	return item.Email, true
}

// SetFocused toggles whether the list consumes navigation keys.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetDelegate(ItemDelegate{Width: width})
	m.list.SetSize(width, height)
}

// Update handles messages for the email list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	if !m.focused {
		return m, nil
	}

	email, hasSelection := m.Selected()

	switch {
	case key.Matches(keyMsg, m.keys.Select):
		if hasSelection {
			return m, func() tea.Msg {
				return SelectedEmailMsg{Email: email}
			}
		}

	case key.Matches(keyMsg, m.keys.Archive):
		if hasSelection {
			return m, actionCmd(ActionArchive, email)
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if hasSelection {
			return m, actionCmd(ActionDelete, email)
		}

	case key.Matches(keyMsg, m.keys.Star):
		if hasSelection {
			return m, actionCmd(ActionToggleStar, email)
		}

	case key.Matches(keyMsg, m.keys.ToggleRead):
		if hasSelection {
			return m, actionCmd(ActionToggleRead, email)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func actionCmd(action Action, email model.Email) tea.Cmd {
	return func() tea.Msg {
		return ActionMsg{Action: action, Email: email}
	}
}

// View renders the email list.
func (m Model) View() string {
	if len(m.emails) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorMuted).
			Render("No emails in this mailbox.")
	}
	return m.list.View()
}
