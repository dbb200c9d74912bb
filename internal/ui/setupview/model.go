// Package setupview is the first-run wizard: it collects the Fastmail
// API token and an optional Claude API key, storing them in the system
// keyring.
package setupview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pdubbbbbs/fastmail-tui/internal/credential"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// DoneMsg is sent when setup finishes. Saved reports whether new
// credentials were stored.
type DoneMsg struct {
	Saved bool
}

// saveFailedMsg is sent when writing to the keyring fails.
type saveFailedMsg struct {
	err error
}

// Model is the setup wizard component.
type Model struct {
	form *huh.Form

	host         string
	token        string
	claudeAPIKey string

	saving bool
	status string

	width  int
	height int
}

// New creates the setup wizard, prefilled from the current config.
func New(cfg model.AppConfig, width, height int) Model {
	m := Model{
		host:   cfg.Fastmail.Host,
		width:  width,
		height: height,
	}
	m.form = m.newForm()
	return m
}

// newForm builds a fresh credential form bound to the model's fields.
func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Fastmail API host").
				Description("Usually api.fastmail.com").
				Value(&m.host),
			huh.NewInput().
				Title("Fastmail API token").
				Description("Create one under Settings → Privacy & Security → API tokens").
				EchoMode(huh.EchoModePassword).
				Value(&m.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Claude API key (optional)").
				Description("Enables AI summaries, replies, and categorization").
				EchoMode(huh.EchoModePassword).
				Value(&m.claudeAPIKey),
		),
	)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Host returns the API host entered by the user.
func (m Model) Host() string {
	return strings.TrimSpace(m.host)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the wizard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return DoneMsg{} }
	}

	if failed, ok := msg.(saveFailedMsg); ok {
		// Keep the wizard open so the user can retry or escape out;
		// the entered values survive in the rebuilt form.
		m.saving = false
		m.status = fmt.Sprintf("Could not save credentials: %v", failed.err)
		m.form = m.newForm()
		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.saving {
		m.saving = true
		m.status = ""
		return m, m.save()
	}
	return m, cmd
}

// save writes the entered credentials into the keyring.
func (m Model) save() tea.Cmd {
	token := strings.TrimSpace(m.token)
	claudeKey := strings.TrimSpace(m.claudeAPIKey)
	return func() tea.Msg {
		if err := credential.Set(credential.KeyFastmailToken, token); err != nil {
			return saveFailedMsg{err: err}
		}
		if claudeKey != "" {
			if err := credential.Set(credential.KeyClaudeAPIKey, claudeKey); err != nil {
				return saveFailedMsg{err: err}
			}
		}
		return DoneMsg{Saved: true}
	}
}

// View renders the wizard.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("Fastmail TUI Setup"))
	sb.WriteString("\n\n")

	if m.saving {
		sb.WriteString(theme.MutedStyle.Render("Saving credentials..."))
	} else {
		sb.WriteString(m.form.View())
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(theme.ErrorStyle.Render(m.status))
	}

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}
