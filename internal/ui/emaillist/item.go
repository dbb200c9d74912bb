package emaillist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/theme"
)

// EmailItem wraps a model.Email so it can be used in a bubbles/list.
type EmailItem struct {
	Email model.Email
}

// FilterValue returns the string used for fuzzy filtering.
func (i EmailItem) FilterValue() string { return i.Email.Subject }

// Title returns the email subject for the list.
func (i EmailItem) Title() string { return i.Email.Subject }

// Description returns a short summary line for the list.
func (i EmailItem) Description() string {
	return i.Email.FromDisplay() + " | " + i.Email.RelativeDate()
}

// ItemDelegate implements list.ItemDelegate for rendering email rows.
type ItemDelegate struct {
	Width int
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single email row: status glyphs, sender, subject, and
// the relative date right-aligned.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	emailItem, ok := item.(EmailItem)
	if !ok {
		return
	}
	email := emailItem.Email
	isSelected := index == m.Index()

	var status string
	if email.IsUnread() {
		status = theme.UnreadStyle.Render("●")
	} else {
		status = " "
	}
	if email.IsStarred() {
		status += theme.StarredStyle.Render("★")
	} else {
		status += " "
	}
	if email.HasAttachment {
		status += "📎"
	} else {
		status += " "
	}

	from := truncatePad(email.FromDisplay(), 20)
	subject := email.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	date := theme.MutedStyle.Render(email.RelativeDate())

	line := fmt.Sprintf("%s %s  %s", status, from, subject)
	if email.AICategory != "" {
		line += theme.AITitleStyle.Render(" [" + string(email.AICategory) + "]")
	}

	gap := d.Width - lipgloss.Width(line) - lipgloss.Width(date) - 2
	if gap < 1 {
		gap = 1
	}
	line += lipgloss.NewStyle().Width(gap).Render("") + date

	if email.IsUnread() {
		line = theme.UnreadStyle.Render(line)
	}
	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = lipgloss.NewStyle().PaddingLeft(1).Render(line)
	}

	fmt.Fprint(w, line)
}

// truncatePad trims or pads s to exactly width display cells.
func truncatePad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return fmt.Sprintf("%-*s", width, s)
}
