// Package composeview is the draft composition form, with optional AI
// assistance for writing the first version.
package composeview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pdubbbbbs/fastmail-tui/internal/ai"
	"github.com/pdubbbbbs/fastmail-tui/internal/jmap"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// CloseMsg is sent when the compose view closes. Saved reports whether
// a draft was stored on the server.
type CloseMsg struct {
	Saved bool
}

// savedMsg is sent when the draft create call finishes.
type savedMsg struct {
	err error
}

// composedMsg carries an AI-written draft back into the form.
type composedMsg struct {
	draft ai.ComposedDraft
	err   error
}

// Model is the compose form component.
type Model struct {
	client    *jmap.Client
	assistant *ai.Assistant

	form    *huh.Form
	to      string
	subject string
	body    string

	saving    bool
	composing bool
	status    string

	width  int
	height int
}

// New creates a compose form. The assistant may be nil when AI is
// disabled.
func New(client *jmap.Client, assistant *ai.Assistant, width, height int) Model {
	m := Model{
		client:    client,
		assistant: assistant,
		width:     width,
		height:    height,
	}
	m.form = m.newForm()
	return m
}

// NewReply creates a compose form prefilled for replying to an email.
func NewReply(client *jmap.Client, assistant *ai.Assistant, email model.Email, body string, width, height int) Model {
	m := New(client, assistant, width, height)
	m.to = email.FromEmail()
	m.subject = replySubject(email.Subject)
	m.body = body
	m.form = m.newForm()
	return m
}

// NewReplyAll prefills recipients with the sender and every original
// recipient.
func NewReplyAll(client *jmap.Client, assistant *ai.Assistant, email model.Email, body string, width, height int) Model {
	m := NewReply(client, assistant, email, body, width, height)

	addrs := []string{email.FromEmail()}
	for _, to := range email.To {
		if to.Email != "" && to.Email != email.FromEmail() {
			addrs = append(addrs, to.Email)
		}
	}
	m.to = strings.Join(addrs, ", ")
	m.form = m.newForm()
	return m
}

// NewForward creates a compose form quoting the original message.
func NewForward(client *jmap.Client, assistant *ai.Assistant, email model.Email, width, height int) Model {
	m := New(client, assistant, width, height)
	m.subject = forwardSubject(email.Subject)

	quoted := email.BodyText
	if quoted == "" {
		quoted = email.Preview
	}
	m.body = fmt.Sprintf(
		"\n\n---------- Forwarded message ----------\nFrom: %s\nDate: %s\nSubject: %s\n\n%s",
		email.FromDisplay(), email.DateDisplay(), email.Subject, quoted,
	)
	m.form = m.newForm()
	return m
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

func forwardSubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "fwd:") {
		return subject
	}
	return "Fwd: " + subject
}

func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("recipient@example.com").
				Value(&m.to).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Subject").
				Value(&m.subject),
			huh.NewText().
				Title("Body").
				Value(&m.body).
				CharLimit(0),
		),
	)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return CloseMsg{Saved: true} }

	case composedMsg:
		m.composing = false
		if msg.err != nil {
			m.status = fmt.Sprintf("AI compose failed: %v", msg.err)
			return m, nil
		}
		if m.subject == "" {
			m.subject = msg.draft.Subject
		}
		m.body = msg.draft.Body
		m.form = m.newForm()
		return m, m.form.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		case "ctrl+a":
			return m.composeWithAI()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.saving {
		m.saving = true
		return m, m.saveDraft()
	}
	return m, cmd
}

// composeWithAI asks the assistant to draft the body from the subject
// line, treated as the purpose of the email.
func (m Model) composeWithAI() (Model, tea.Cmd) {
	if m.assistant == nil {
		m.status = "AI assistance is not configured"
		return m, nil
	}
	if strings.TrimSpace(m.subject) == "" {
		m.status = "Enter a subject first; it is used as the purpose"
		return m, nil
	}

	m.composing = true
	m.status = ""
	assistant := m.assistant
	to, purpose := m.to, m.subject
	return m, func() tea.Msg {
		draft, err := assistant.ComposeDraft(context.Background(), to, purpose, "", "")
		return composedMsg{draft: draft, err: err}
	}
}

func (m Model) saveDraft() tea.Cmd {
	client := m.client
	draft := jmap.Draft{
		To:      []model.EmailAddress{{Email: strings.TrimSpace(m.to)}},
		Subject: m.subject,
		Body:    m.body,
	}
	return func() tea.Msg {
		_, err := client.SaveDraft(context.Background(), draft)
		return savedMsg{err: err}
	}
}

// View renders the compose form.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("Compose"))
	sb.WriteString("\n\n")

	switch {
	case m.saving:
		sb.WriteString(theme.MutedStyle.Render("Saving draft..."))
	case m.composing:
		sb.WriteString(theme.AITitleStyle.Render("Writing draft with AI..."))
	default:
		sb.WriteString(m.form.View())
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(theme.ErrorStyle.Render(m.status))
	}

	sb.WriteString("\n")
	sb.WriteString(theme.HelpStyle.Render("ctrl+a AI draft · esc cancel"))

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}
