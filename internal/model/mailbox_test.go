package model

import (
	"reflect"
	"testing"
)

func namesOf(mailboxes []Mailbox) []string {
	names := make([]string, len(mailboxes))
	for i, m := range mailboxes {
		names[i] = m.Name
	}
	return names
}

func TestSortMailboxesSystemOrder(t *testing.T) {
	input := []Mailbox{
		{ID: "3", Name: "Trash", Role: "trash"},
		{ID: "1", Name: "Inbox", Role: "inbox"},
		{ID: "2", Name: "Archive", Role: "archive"},
	}

	got := namesOf(SortMailboxes(input))
	want := []string{"Inbox", "Archive", "Trash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesFullSystemOrder(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Sent", Role: "sent"},
		{ID: "2", Name: "Trash", Role: "trash"},
		{ID: "3", Name: "Inbox", Role: "inbox"},
		{ID: "4", Name: "Drafts", Role: "drafts"},
		{ID: "5", Name: "Archive", Role: "archive"},
		{ID: "6", Name: "Spam", Role: "spam"},
	}

	got := namesOf(SortMailboxes(input))
	want := []string{"Inbox", "Drafts", "Sent", "Archive", "Spam", "Trash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesSpamJunkEqualRank(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Trash", Role: "trash"},
		{ID: "2", Name: "Junk Mail", Role: "junk"},
		{ID: "3", Name: "Bulk", Role: "spam"},
		{ID: "4", Name: "Archive", Role: "archive"},
	}

	got := namesOf(SortMailboxes(input))
	// spam and junk share a rank; tie-break is alphabetical by name.
	want := []string{"Archive", "Bulk", "Junk Mail", "Trash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesRoleCaseInsensitive(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Trash", Role: "TRASH"},
		{ID: "2", Name: "Inbox", Role: "Inbox"},
	}

	got := namesOf(SortMailboxes(input))
	want := []string{"Inbox", "Trash"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesUserFoldersBySortOrder(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Projects", SortOrder: 2},
		{ID: "2", Name: "Archive2", SortOrder: 1},
	}

	got := namesOf(SortMailboxes(input))
	want := []string{"Archive2", "Projects"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesUnknownRoleSortsLastAmongSystem(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Receipts", SortOrder: 0},
		{ID: "2", Name: "Scheduled", Role: "scheduled"},
		{ID: "3", Name: "Trash", Role: "trash"},
	}

	got := namesOf(SortMailboxes(input))
	// An unrecognized role is still a system folder but ranks below all
	// canonical roles, ahead of every user folder.
	want := []string{"Trash", "Scheduled", "Receipts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortMailboxes() order = %v, want %v", got, want)
	}
}

func TestSortMailboxesIdempotent(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Inbox", Role: "inbox"},
		{ID: "2", Name: "Sent", Role: "sent"},
		{ID: "3", Name: "Work", SortOrder: 1},
		{ID: "4", Name: "Personal", SortOrder: 2},
	}

	once := SortMailboxes(input)
	twice := SortMailboxes(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("SortMailboxes() not idempotent: %v != %v", namesOf(once), namesOf(twice))
	}
}

func TestSortMailboxesDoesNotMutateInput(t *testing.T) {
	input := []Mailbox{
		{ID: "1", Name: "Trash", Role: "trash"},
		{ID: "2", Name: "Inbox", Role: "inbox"},
	}

	SortMailboxes(input)

	if input[0].Name != "Trash" || input[1].Name != "Inbox" {
		t.Errorf("SortMailboxes() mutated its input: %v", namesOf(input))
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		mailbox Mailbox
		want    string
	}{
		{"canonical role", Mailbox{Name: "INBOX", Role: "inbox"}, "Inbox"},
		{"role case-insensitive", Mailbox{Name: "Junk Mail", Role: "JUNK"}, "Junk"},
		{"unknown role falls through", Mailbox{Name: "Later", Role: "snoozed"}, "Later"},
		{"no role", Mailbox{Name: "Projects"}, "Projects"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mailbox.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnreadDisplay(t *testing.T) {
	tests := []struct {
		unread int
		want   string
	}{
		{0, ""},
		{1, "1"},
		{999, "999"},
		{1000, "999+"},
	}

	for _, tt := range tests {
		m := Mailbox{UnreadEmails: tt.unread}
		if got := m.UnreadDisplay(); got != tt.want {
			t.Errorf("UnreadDisplay() with %d unread = %q, want %q", tt.unread, got, tt.want)
		}
	}
}
