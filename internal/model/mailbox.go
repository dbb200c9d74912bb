package model

import (
	"sort"
	"strconv"
	"strings"
)

// Mailbox is an email folder as exposed by the JMAP Mailbox object.
type Mailbox struct {
	// ID is the server-assigned mailbox identifier.
	ID string `json:"id"`

	// Name is the user-visible folder name.
	Name string `json:"name"`

	// Role is the JMAP role (inbox, drafts, sent, archive, spam, junk,
	// trash), empty for user-created folders.
	Role string `json:"role,omitempty"`

	// ParentID is the parent mailbox ID for nested folders.
	ParentID string `json:"parent_id,omitempty"`

	// SortOrder is the server-suggested position among sibling folders.
	// Only meaningful for folders without a role.
	SortOrder int `json:"sort_order"`

	TotalEmails   int `json:"total_emails"`
	UnreadEmails  int `json:"unread_emails"`
	TotalThreads  int `json:"total_threads"`
	UnreadThreads int `json:"unread_threads"`

	IsSubscribed bool `json:"is_subscribed"`
}

// roleDisplayNames maps canonical roles to their display labels.
var roleDisplayNames = map[string]string{
	"inbox":   "Inbox",
	"drafts":  "Drafts",
	"sent":    "Sent",
	"trash":   "Trash",
	"archive": "Archive",
	"spam":    "Spam",
	"junk":    "Junk",
}

// roleSortRank orders canonical system roles for display. Spam and junk
// share a rank; unknown roles sort after all canonical ones.
var roleSortRank = map[string]int{
	"inbox":   0,
	"drafts":  1,
	"sent":    2,
	"archive": 3,
	"spam":    4,
	"junk":    4,
	"trash":   5,
}

// IsSystem reports whether this is a system mailbox (has a role).
func (m Mailbox) IsSystem() bool {
	return m.Role != ""
}

// DisplayName returns the role-based name for system mailboxes, or the
// folder's own name otherwise.
func (m Mailbox) DisplayName() string {
	if name, ok := roleDisplayNames[strings.ToLower(m.Role)]; ok {
		return name
	}
	return m.Name
}

// UnreadDisplay returns the unread count formatted for the tree panel,
// capped at "999+". Empty when there is nothing unread.
func (m Mailbox) UnreadDisplay() string {
	switch {
	case m.UnreadEmails <= 0:
		return ""
	case m.UnreadEmails > 999:
		return "999+"
	default:
		return strconv.Itoa(m.UnreadEmails)
	}
}

// sortKey is the composite ordering key for a mailbox: system folders
// first, then role rank (or SortOrder for user folders), then name.
type sortKey struct {
	tier int
	rank int
	name string
}

func mailboxSortKey(m Mailbox) sortKey {
	if m.Role != "" {
		rank, ok := roleSortRank[strings.ToLower(m.Role)]
		if !ok {
			rank = 99
		}
		return sortKey{tier: 0, rank: rank, name: strings.ToLower(m.Name)}
	}
	return sortKey{tier: 1, rank: m.SortOrder, name: strings.ToLower(m.Name)}
}

func (k sortKey) less(other sortKey) bool {
	if k.tier != other.tier {
		return k.tier < other.tier
	}
	if k.rank != other.rank {
		return k.rank < other.rank
	}
	return k.name < other.name
}

// SortMailboxes returns a new slice with system folders first in the
// standard order (inbox, drafts, sent, archive, spam/junk, trash), then
// user folders by their SortOrder and name. The input is not modified.
func SortMailboxes(mailboxes []Mailbox) []Mailbox {
	sorted := make([]Mailbox, len(mailboxes))
	copy(sorted, mailboxes)

	sort.SliceStable(sorted, func(i, j int) bool {
		return mailboxSortKey(sorted[i]).less(mailboxSortKey(sorted[j]))
	})

	return sorted
}
