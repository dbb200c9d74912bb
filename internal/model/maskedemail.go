package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Masked email lifecycle states as defined by the Fastmail API.
const (
	MaskedStateEnabled  = "enabled"
	MaskedStateDisabled = "disabled"
	MaskedStateDeleted  = "deleted"
	MaskedStatePending  = "pending"
)

// MaskedEmail is a disposable forwarding address managed through the
// Fastmail masked-email API.
type MaskedEmail struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	State       string `json:"state"`
	ForDomain   string `json:"for_domain,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	CreatedAt     time.Time `json:"created_at,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
}

// IsActive reports whether the alias is currently forwarding mail.
func (m MaskedEmail) IsActive() bool {
	return m.State == MaskedStateEnabled
}

// IsDisabled reports whether forwarding is paused for the alias.
func (m MaskedEmail) IsDisabled() bool {
	return m.State == MaskedStateDisabled
}

// StatusDisplay returns the state capitalized for table rendering.
func (m MaskedEmail) StatusDisplay() string {
	if m.State == "" {
		return ""
	}
	return strings.ToUpper(m.State[:1]) + m.State[1:]
}

// DomainDisplay returns the associated domain, or "General" when the
// alias is not tied to one.
func (m MaskedEmail) DomainDisplay() string {
	if m.ForDomain == "" {
		return "General"
	}
	return m.ForDomain
}

// DescriptionDisplay returns the description or a placeholder.
func (m MaskedEmail) DescriptionDisplay() string {
	if m.Description == "" {
		return "(no description)"
	}
	return m.Description
}

// LastUsedDisplay returns a human-readable age of the most recent
// forwarded message, or "Never".
func (m MaskedEmail) LastUsedDisplay() string {
	if m.LastMessageAt.IsZero() {
		return "Never"
	}

	days := int(time.Since(m.LastMessageAt).Hours() / 24)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return m.LastMessageAt.Format("Jan 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// SortMaskedEmails returns a new slice ordered by creation date,
// newest first. The input is not modified.
func SortMaskedEmails(masked []MaskedEmail) []MaskedEmail {
	sorted := make([]MaskedEmail, len(masked))
	copy(sorted, masked)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return sorted
}
