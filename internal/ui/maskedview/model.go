// Package maskedview manages Fastmail masked email aliases and pairs
// each new alias with a generated password for the site it is for.
package maskedview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/jmap"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/secret"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// CloseMsg is sent when the user leaves the masked email manager.
type CloseMsg struct{}

// loadedMsg is sent when the alias list has been fetched.
type loadedMsg struct {
	masked []model.MaskedEmail
	err    error
}

// createdMsg is sent when a new alias and password are ready.
type createdMsg struct {
	masked   model.MaskedEmail
	password string
	err      error
}

// actionDoneMsg is sent after a toggle or delete completes.
type actionDoneMsg struct {
	err error
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeCredentials
)

// Model is the masked email manager component.
type Model struct {
	client *jmap.Client
	mode   mode

	masked []model.MaskedEmail
	cursor int
	status string

	form            *huh.Form
	formDomain      string
	formDescription string

	// Credentials shown after creating a new login.
	newMasked   model.MaskedEmail
	newPassword string

	width  int
	height int
}

// New creates the masked email manager.
func New(client *jmap.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

// Init loads the alias list.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		masked, err := client.MaskedEmails(context.Background())
		return loadedMsg{masked: masked, err: err}
	}
}

// StartCreate opens the new-login form directly, skipping the list.
func (m *Model) StartCreate() tea.Cmd {
	m.mode = modeForm
	m.form = m.newLoginForm()
	return m.form.Init()
}

// newLoginForm builds the quick-create form for a new site login.
func (m *Model) newLoginForm() *huh.Form {
	m.formDomain = ""
	m.formDescription = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Website domain").
				Placeholder("example.com").
				Value(&m.formDomain).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("domain is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("Shopping account").
				Value(&m.formDescription),
		),
	)
}

// Update handles messages for the manager.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to load masked emails: %v", msg.err)
			return m, nil
		}
		m.masked = msg.masked
		if m.cursor >= len(m.masked) {
			m.cursor = 0
		}
		m.status = ""
		return m, nil

	case createdMsg:
		if msg.err != nil {
			m.mode = modeList
			m.status = fmt.Sprintf("Create failed: %v", msg.err)
			return m, nil
		}
		m.mode = modeCredentials
		m.newMasked = msg.masked
		m.newPassword = msg.password
		return m, m.load()

	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Action failed: %v", msg.err)
			return m, nil
		}
		return m, m.load()

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeCredentials:
			// Any key dismisses the credentials card.
			m.mode = modeList
			m.newPassword = ""
			return m, nil
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == modeForm && m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return CloseMsg{} }

	case "j", "down":
		if m.cursor < len(m.masked)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "n":
		cmd := m.StartCreate()
		return m, cmd

	case " ":
		if m.cursor < len(m.masked) {
			alias := m.masked[m.cursor]
			client := m.client
			return m, func() tea.Msg {
				_, err := client.ToggleMaskedEmail(context.Background(), alias.ID, alias.State)
				return actionDoneMsg{err: err}
			}
		}

	case "d":
		if m.cursor < len(m.masked) {
			alias := m.masked[m.cursor]
			client := m.client
			return m, func() tea.Msg {
				err := client.DeleteMaskedEmail(context.Background(), alias.ID)
				return actionDoneMsg{err: err}
			}
		}

	case "ctrl+l":
		return m, m.load()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = modeList
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		domain := strings.TrimSpace(m.formDomain)
		description := strings.TrimSpace(m.formDescription)
		if description == "" {
			description = "Login for " + domain
		}
		m.mode = modeList
		m.form = nil

		client := m.client
		return m, func() tea.Msg {
			masked, err := client.CreateMaskedEmail(context.Background(), domain, description)
			if err != nil {
				return createdMsg{err: err}
			}
			password := secret.Generate(secret.DefaultPasswordOptions())
			return createdMsg{masked: masked, password: password}
		}
	}
	return m, cmd
}

// View renders the manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return theme.PanelStyle.Width(m.width - 4).Render(
			theme.TitleStyle.Render("New Login") + "\n\n" + m.form.View())
	case modeCredentials:
		return m.viewCredentials()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("🔒 Masked Email Manager"))
	sb.WriteString("\n\n")

	if len(m.masked) == 0 {
		sb.WriteString(theme.MutedStyle.Render("No masked emails yet. Press 'n' to create one."))
	}

	for i, alias := range m.masked {
		state := theme.MaskedStateStyle(alias.State).Render(alias.StatusDisplay())
		line := fmt.Sprintf("%-10s %-34s %-20s %s",
			state,
			alias.Email,
			truncate(alias.DomainDisplay(), 20),
			theme.MutedStyle.Render(alias.LastUsedDisplay()))
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = lipgloss.NewStyle().PaddingLeft(1).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	active := 0
	for _, alias := range m.masked {
		if alias.IsActive() {
			active++
		}
	}
	sb.WriteString("\n")
	sb.WriteString(theme.MutedStyle.Render(
		fmt.Sprintf("%d active / %d total", active, len(m.masked))))
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(theme.ErrorStyle.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString(theme.HelpStyle.Render("n new · space toggle · d delete · ctrl+l refresh · esc back"))

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}

// viewCredentials shows the freshly created alias and password once.
func (m Model) viewCredentials() string {
	report := secret.Strength(m.newPassword)

	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("✓ Login Created"))
	sb.WriteString("\n\n")
	sb.WriteString(theme.MutedStyle.Render("Email:    "))
	sb.WriteString(m.newMasked.Email)
	sb.WriteString("\n")
	sb.WriteString(theme.MutedStyle.Render("Password: "))
	sb.WriteString(m.newPassword)
	sb.WriteString("\n")
	sb.WriteString(theme.MutedStyle.Render("Strength: "))
	sb.WriteString(theme.StrengthMeter(report))
	sb.WriteString(" ")
	sb.WriteString(theme.StrengthStyle(report).Render(report.Label))
	sb.WriteString("\n\n")
	sb.WriteString(theme.SuccessStyle.Render("Save these credentials in your password manager!"))
	sb.WriteString("\n\n")
	sb.WriteString(theme.HelpStyle.Render("press any key to continue"))

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return s
}
