package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/tests/testutil"
)

func scopedEmail(id, mailboxID string, receivedAt time.Time) model.Email {
	return model.Email{
		ID:         id,
		ThreadID:   "t-" + id,
		MailboxIDs: map[string]bool{mailboxID: true},
		Subject:    "Subject " + id,
		From:       []model.EmailAddress{{Email: "ana@example.com"}},
		To:         []model.EmailAddress{{Email: "me@example.com"}},
		Keywords:   map[string]bool{},
		ReceivedAt: receivedAt,
	}
}

func TestRecentEmailsScopedToMailbox(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := c.UpsertEmails(ctx, []model.Email{
		scopedEmail("i1", "inbox", base.Add(time.Hour)),
		scopedEmail("i2", "inbox", base),
		scopedEmail("a1", "archive", base.Add(2*time.Hour)),
	}); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	inbox, err := c.RecentEmails(ctx, "inbox", 10)
	if err != nil {
		t.Fatalf("RecentEmails(inbox) error = %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("got %d inbox emails, want 2", len(inbox))
	}
	if inbox[0].ID != "i1" || inbox[1].ID != "i2" {
		t.Errorf("inbox order = %q, %q, want i1, i2", inbox[0].ID, inbox[1].ID)
	}

	archive, err := c.RecentEmails(ctx, "archive", 10)
	if err != nil {
		t.Fatalf("RecentEmails(archive) error = %v", err)
	}
	if len(archive) != 1 || archive[0].ID != "a1" {
		t.Errorf("archive emails = %+v, want only a1", archive)
	}

	all, err := c.RecentEmails(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentEmails(all) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d unscoped emails, want 3", len(all))
	}
}

func TestRecentEmailsUnknownMailbox(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	if err := c.UpsertEmails(ctx, []model.Email{
		scopedEmail("i1", "inbox", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)),
	}); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	got, err := c.RecentEmails(ctx, "trash", 10)
	if err != nil {
		t.Fatalf("RecentEmails(trash) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d emails for an unknown mailbox, want 0", len(got))
	}
}
