// Package theme holds the color palette and shared lipgloss styles.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pdubbbbbs/fastmail-tui/internal/secret"
)

// Core palette (dark terminal value, light terminal value).
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Dark: "#00D4FF", Light: "#0E7490"}
	ColorSecondary = lipgloss.AdaptiveColor{Dark: "#9945FF", Light: "#7C3AED"}
	ColorSuccess   = lipgloss.AdaptiveColor{Dark: "#00FF88", Light: "#15803D"}
	ColorError     = lipgloss.AdaptiveColor{Dark: "#FF4444", Light: "#C53030"}
	ColorWarning   = lipgloss.AdaptiveColor{Dark: "#FFB800", Light: "#B7791F"}
	ColorStarred   = lipgloss.AdaptiveColor{Dark: "#FFD700", Light: "#B7791F"}
	ColorText      = lipgloss.AdaptiveColor{Dark: "#E0E0E0", Light: "#1A202C"}
	ColorMuted     = lipgloss.AdaptiveColor{Dark: "#666688", Light: "#718096"}
	ColorBorder    = lipgloss.AdaptiveColor{Dark: "#2A2A3A", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorMuted).
	Padding(0, 1)

// PanelStyle wraps bordered content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is used for per-panel section titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary)

// AITitleStyle marks AI-generated panels.
var AITitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorSecondary)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorPrimary).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorPrimary)

// UnreadStyle marks unread emails in lists.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorPrimary)

// StarredStyle marks flagged emails.
var StarredStyle = lipgloss.NewStyle().
	Foreground(ColorStarred)

// MutedStyle is used for secondary metadata like dates and sizes.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorMuted)

// HelpStyle is used for keyboard shortcut hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorMuted).
	Italic(true)

// ErrorStyle is used for error lines in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorError)

// SuccessStyle is used for confirmation messages.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorSuccess)

// MailboxIcon returns the icon shown next to a mailbox role.
func MailboxIcon(role string) string {
	switch role {
	case "inbox":
		return "📥"
	case "drafts":
		return "📝"
	case "sent":
		return "📤"
	case "archive":
		return "📦"
	case "spam", "junk":
		return "⚠"
	case "trash":
		return "🗑"
	default:
		return "📁"
	}
}

// MaskedStateStyle returns a color-coded style for a masked email state.
func MaskedStateStyle(state string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch state {
	case "enabled":
		return base.Foreground(ColorSuccess)
	case "disabled":
		return base.Foreground(ColorError)
	case "pending":
		return base.Foreground(ColorWarning)
	default:
		return base.Foreground(ColorMuted)
	}
}

// StrengthStyle returns the style for rendering a password strength
// label, using the color the report carries.
func StrengthStyle(report secret.StrengthReport) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(report.Color))
}

// StrengthMeter renders a fixed-width bar like "██████░░" for the
// report's score.
func StrengthMeter(report secret.StrengthReport) string {
	filled := report.Score
	if filled < 0 {
		filled = 0
	}
	if filled > report.MaxScore {
		filled = report.MaxScore
	}

	bar := ""
	for i := 0; i < report.MaxScore; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return StrengthStyle(report).Render(bar)
}
