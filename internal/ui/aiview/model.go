// Package aiview shows AI analysis for an opened email: a structured
// summary and suggested replies the user can pick up into compose.
package aiview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/ai"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// CloseMsg is sent when the panel is dismissed.
type CloseMsg struct{}

// UseReplyMsg is sent when the user picks a suggested reply.
type UseReplyMsg struct {
	Email model.Email
	Reply ai.ReplyDraft
}

// summaryMsg carries a finished summary.
type summaryMsg struct {
	summary ai.EmailSummary
	err     error
}

// repliesMsg carries finished reply suggestions.
type repliesMsg struct {
	replies []ai.ReplyDraft
	err     error
}

// Model is the AI panel component.
type Model struct {
	assistant *ai.Assistant
	email     model.Email

	summary    ai.EmailSummary
	hasSummary bool
	replies    []ai.ReplyDraft
	cursor     int

	loadingSummary bool
	loadingReplies bool
	status         string
	spinner        spinner.Model

	width  int
	height int
}

// New creates the AI panel for one email.
func New(assistant *ai.Assistant, email model.Email, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorSecondary)

	return Model{
		assistant: assistant,
		email:     email,
		spinner:   sp,
		width:     width,
		height:    height,
	}
}

// Init requests the summary immediately.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Summarize(), m.spinner.Tick)
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Summarize requests a summary of the panel's email.
func (m *Model) Summarize() tea.Cmd {
	m.loadingSummary = true
	assistant := m.assistant
	subject, body := m.email.Subject, m.bodyForAI()
	return func() tea.Msg {
		summary, err := assistant.SummarizeEmail(context.Background(), subject, body)
		return summaryMsg{summary: summary, err: err}
	}
}

// SuggestReplies requests reply drafts for the panel's email.
func (m *Model) SuggestReplies() tea.Cmd {
	m.loadingReplies = true
	assistant := m.assistant
	subject, body, sender := m.email.Subject, m.bodyForAI(), m.email.FromDisplay()
	return func() tea.Msg {
		replies, err := assistant.SuggestReplies(context.Background(), subject, body, sender, "")
		return repliesMsg{replies: replies, err: err}
	}
}

func (m Model) bodyForAI() string {
	if m.email.BodyText != "" {
		return m.email.BodyText
	}
	return m.email.Preview
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.loadingSummary = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Summary unavailable: %v", msg.err)
			return m, nil
		}
		m.summary = msg.summary
		m.hasSummary = true
		return m, nil

	case repliesMsg:
		m.loadingReplies = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Replies unavailable: %v", msg.err)
			return m, nil
		}
		m.replies = msg.replies
		m.cursor = 0
		return m, nil

	case spinner.TickMsg:
		if m.loadingSummary || m.loadingReplies {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }

		case "r":
			if !m.loadingReplies && len(m.replies) == 0 {
				cmd := m.SuggestReplies()
				return m, tea.Batch(cmd, m.spinner.Tick)
			}

		case "j", "down":
			if m.cursor < len(m.replies)-1 {
				m.cursor++
			}

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}

		case "enter":
			if m.cursor < len(m.replies) {
				email, reply := m.email, m.replies[m.cursor]
				return m, func() tea.Msg {
					return UseReplyMsg{Email: email, Reply: reply}
				}
			}
		}
	}
	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.AITitleStyle.Render("✨ AI Assistant"))
	sb.WriteString("\n\n")

	switch {
	case m.loadingSummary:
		sb.WriteString(m.spinner.View())
		sb.WriteString(theme.MutedStyle.Render("Analyzing email..."))
	case m.hasSummary:
		sb.WriteString(m.renderSummary())
	}

	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(theme.ErrorStyle.Render(m.status))
	}

	sb.WriteString("\n\n")
	switch {
	case m.loadingReplies:
		sb.WriteString(m.spinner.View())
		sb.WriteString(theme.MutedStyle.Render("Drafting replies..."))
	case len(m.replies) > 0:
		sb.WriteString(m.renderReplies())
	default:
		sb.WriteString(theme.HelpStyle.Render("r suggest replies"))
	}

	sb.WriteString("\n\n")
	sb.WriteString(theme.HelpStyle.Render("enter use reply · esc close"))

	return theme.PanelStyle.Width(m.width - 4).Render(sb.String())
}

func (m Model) renderSummary() string {
	var sb strings.Builder
	sb.WriteString(m.summary.OneLiner)
	sb.WriteString("\n")

	meta := fmt.Sprintf("%s · %s", m.summary.Category, m.summary.Sentiment)
	sb.WriteString(theme.MutedStyle.Render(meta))
	sb.WriteString("\n")

	for _, point := range m.summary.KeyPoints {
		sb.WriteString("  • " + point + "\n")
	}
	for _, item := range m.summary.ActionItems {
		sb.WriteString(theme.SuccessStyle.Render("  → "+item) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderReplies() string {
	var sb strings.Builder
	sb.WriteString(theme.TitleStyle.Render("Suggested replies"))
	sb.WriteString("\n")

	for i, reply := range m.replies {
		preview := reply.Content
		if lines := strings.SplitN(preview, "\n", 2); len(lines) > 0 {
			preview = lines[0]
		}
		if len([]rune(preview)) > 60 {
			preview = string([]rune(preview)[:59]) + "…"
		}
		line := fmt.Sprintf("[%s] %s", reply.Tone, preview)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = lipgloss.NewStyle().PaddingLeft(1).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
