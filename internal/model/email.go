package model

import (
	"fmt"
	"strings"
	"time"
)

// Category is an AI-detected email category.
type Category string

const (
	CategoryWork        Category = "work"
	CategoryPersonal    Category = "personal"
	CategoryNewsletter  Category = "newsletter"
	CategoryTransaction Category = "transaction"
	CategorySocial      Category = "social"
	CategorySpam        Category = "spam"
	CategoryOther       Category = "other"
)

// ValidCategory reports whether s is one of the known category values.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryWork, CategoryPersonal, CategoryNewsletter,
		CategoryTransaction, CategorySocial, CategorySpam, CategoryOther:
		return true
	}
	return false
}

// Sentiment is an AI-detected email sentiment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUrgent   Sentiment = "urgent"
)

// EmailAddress is an address with an optional display name.
type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Display returns "Name <addr>" when a name is set, the bare address
// otherwise.
func (a EmailAddress) Display() string {
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, a.Email)
	}
	return a.Email
}

// ShortDisplay returns the name when set, otherwise the address local part.
func (a EmailAddress) ShortDisplay() string {
	if a.Name != "" {
		return a.Name
	}
	if at := strings.Index(a.Email, "@"); at > 0 {
		return a.Email[:at]
	}
	return a.Email
}

// Attachment describes a single email attachment.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	IsInline bool   `json:"is_inline"`
}

// SizeDisplay returns the attachment size formatted for humans.
func (a Attachment) SizeDisplay() string {
	switch {
	case a.Size < 1024:
		return fmt.Sprintf("%d B", a.Size)
	case a.Size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(a.Size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/(1024*1024))
	}
}

// Email is a single message as shown in the list and preview panes.
type Email struct {
	ID         string          `json:"id"`
	ThreadID   string          `json:"thread_id"`
	MailboxIDs map[string]bool `json:"mailbox_ids"`

	Subject    string    `json:"subject"`
	Preview    string    `json:"preview"`
	ReceivedAt time.Time `json:"received_at"`
	SentAt     time.Time `json:"sent_at,omitempty"`

	From    []EmailAddress `json:"from,omitempty"`
	To      []EmailAddress `json:"to,omitempty"`
	CC      []EmailAddress `json:"cc,omitempty"`
	BCC     []EmailAddress `json:"bcc,omitempty"`
	ReplyTo []EmailAddress `json:"reply_to,omitempty"`

	// Keywords holds JMAP keywords such as $seen, $flagged, $draft.
	Keywords map[string]bool `json:"keywords,omitempty"`

	Size          int64        `json:"size"`
	HasAttachment bool         `json:"has_attachment"`
	Attachments   []Attachment `json:"attachments,omitempty"`

	BodyText string `json:"body_text,omitempty"`
	BodyHTML string `json:"body_html,omitempty"`

	// AI-generated fields, populated on demand by the assistant.
	AISummary     string    `json:"ai_summary,omitempty"`
	AICategory    Category  `json:"ai_category,omitempty"`
	AISentiment   Sentiment `json:"ai_sentiment,omitempty"`
	AIActionItems []string  `json:"ai_action_items,omitempty"`
}

// IsUnread reports whether the message lacks the $seen keyword.
func (e Email) IsUnread() bool {
	return !e.Keywords["$seen"]
}

// IsStarred reports whether the message carries the $flagged keyword.
func (e Email) IsStarred() bool {
	return e.Keywords["$flagged"]
}

// IsDraft reports whether the message carries the $draft keyword.
func (e Email) IsDraft() bool {
	return e.Keywords["$draft"]
}

// IsAnswered reports whether the message carries the $answered keyword.
func (e Email) IsAnswered() bool {
	return e.Keywords["$answered"]
}

// FromDisplay returns the short display name of the first sender,
// or "Unknown" when the From list is empty.
func (e Email) FromDisplay() string {
	if len(e.From) > 0 {
		return e.From[0].ShortDisplay()
	}
	return "Unknown"
}

// FromEmail returns the address of the first sender, or "".
func (e Email) FromEmail() string {
	if len(e.From) > 0 {
		return e.From[0].Email
	}
	return ""
}

// ToDisplay summarizes the recipient list for the list pane.
func (e Email) ToDisplay() string {
	switch len(e.To) {
	case 0:
		return ""
	case 1:
		return e.To[0].ShortDisplay()
	default:
		return fmt.Sprintf("%s +%d", e.To[0].ShortDisplay(), len(e.To)-1)
	}
}

// RelativeDate returns a compact human-readable age for the message,
// e.g. "now", "5m", "3h", "yesterday", "Mon", "Mar 02", "2023".
func (e Email) RelativeDate() string {
	now := time.Now()
	diff := now.Sub(e.ReceivedAt)

	days := int(now.Truncate(24*time.Hour).Sub(e.ReceivedAt.Truncate(24*time.Hour)).Hours() / 24)

	switch {
	case days <= 0:
		switch {
		case diff < time.Minute:
			return "now"
		case diff < time.Hour:
			return fmt.Sprintf("%dm", int(diff.Minutes()))
		default:
			return fmt.Sprintf("%dh", int(diff.Hours()))
		}
	case days == 1:
		return "yesterday"
	case days < 7:
		return e.ReceivedAt.Format("Mon")
	case days < 365:
		return e.ReceivedAt.Format("Jan 02")
	default:
		return e.ReceivedAt.Format("2006")
	}
}

// DateDisplay returns the full formatted receive date.
func (e Email) DateDisplay() string {
	return e.ReceivedAt.Format("Jan 02, 2006 03:04 PM")
}
