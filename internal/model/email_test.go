package model

import (
	"testing"
	"time"
)

func TestEmailAddressDisplay(t *testing.T) {
	withName := EmailAddress{Email: "ada@example.com", Name: "Ada Lovelace"}
	if got := withName.Display(); got != "Ada Lovelace <ada@example.com>" {
		t.Errorf("Display() = %q", got)
	}
	if got := withName.ShortDisplay(); got != "Ada Lovelace" {
		t.Errorf("ShortDisplay() = %q", got)
	}

	bare := EmailAddress{Email: "ada@example.com"}
	if got := bare.Display(); got != "ada@example.com" {
		t.Errorf("Display() = %q", got)
	}
	if got := bare.ShortDisplay(); got != "ada" {
		t.Errorf("ShortDisplay() = %q, want local part", got)
	}
}

func TestEmailKeywordHelpers(t *testing.T) {
	e := Email{Keywords: map[string]bool{"$flagged": true}}

	if !e.IsUnread() {
		t.Error("IsUnread() = false without $seen keyword")
	}
	if !e.IsStarred() {
		t.Error("IsStarred() = false with $flagged keyword")
	}
	if e.IsDraft() {
		t.Error("IsDraft() = true without $draft keyword")
	}

	e.Keywords["$seen"] = true
	if e.IsUnread() {
		t.Error("IsUnread() = true with $seen keyword")
	}
}

func TestFromDisplay(t *testing.T) {
	e := Email{From: []EmailAddress{{Email: "bob@example.com", Name: "Bob"}}}
	if got := e.FromDisplay(); got != "Bob" {
		t.Errorf("FromDisplay() = %q", got)
	}
	if got := e.FromEmail(); got != "bob@example.com" {
		t.Errorf("FromEmail() = %q", got)
	}

	empty := Email{}
	if got := empty.FromDisplay(); got != "Unknown" {
		t.Errorf("FromDisplay() with no sender = %q", got)
	}
	if got := empty.FromEmail(); got != "" {
		t.Errorf("FromEmail() with no sender = %q", got)
	}
}

func TestToDisplay(t *testing.T) {
	e := Email{To: []EmailAddress{
		{Email: "a@example.com", Name: "Anna"},
		{Email: "b@example.com"},
		{Email: "c@example.com"},
	}}
	if got := e.ToDisplay(); got != "Anna +2" {
		t.Errorf("ToDisplay() = %q", got)
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		received time.Time
		want     string
	}{
		{"just now", now.Add(-30 * time.Second), "now"},
		{"minutes", now.Add(-5 * time.Minute), "5m"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Email{ReceivedAt: tt.received}
			if got := e.RelativeDate(); got != tt.want {
				t.Errorf("RelativeDate() = %q, want %q", got, tt.want)
			}
		})
	}

	old := Email{ReceivedAt: now.AddDate(-2, 0, 0)}
	if got := old.RelativeDate(); got != old.ReceivedAt.Format("2006") {
		t.Errorf("RelativeDate() for old mail = %q", got)
	}
}

func TestAttachmentSizeDisplay(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		a := Attachment{Size: tt.size}
		if got := a.SizeDisplay(); got != tt.want {
			t.Errorf("SizeDisplay(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestSortMaskedEmailsNewestFirstRelative(t *testing.T) {
	now := time.Now()
	input := []MaskedEmail{
		{ID: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "mid", CreatedAt: now.Add(-24 * time.Hour)},
	}

	got := SortMaskedEmails(input)
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Errorf("SortMaskedEmails() order = %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
	if input[0].ID != "old" {
		t.Error("SortMaskedEmails() mutated its input")
	}
}

func TestMaskedEmailDisplays(t *testing.T) {
	m := MaskedEmail{State: MaskedStateEnabled}
	if !m.IsActive() || m.IsDisabled() {
		t.Error("state helpers wrong for enabled alias")
	}
	if got := m.StatusDisplay(); got != "Enabled" {
		t.Errorf("StatusDisplay() = %q", got)
	}
	if got := m.DomainDisplay(); got != "General" {
		t.Errorf("DomainDisplay() = %q", got)
	}
	if got := m.LastUsedDisplay(); got != "Never" {
		t.Errorf("LastUsedDisplay() = %q", got)
	}

	m.ForDomain = "shop.example.com"
	if got := m.DomainDisplay(); got != "shop.example.com" {
		t.Errorf("DomainDisplay() = %q", got)
	}
}
