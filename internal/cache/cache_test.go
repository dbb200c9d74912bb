package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

func newCache(t *testing.T) *EmailCache {
	t.Helper()
	c, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testEmail(id string, receivedAt time.Time) model.Email {
	return model.Email{
		ID:         id,
		ThreadID:   "t-" + id,
		MailboxIDs: map[string]bool{"inbox": true},
		Subject:    "Subject " + id,
		Preview:    "Preview " + id,
		From:       []model.EmailAddress{{Name: "Ana", Email: "ana@example.com"}},
		To:         []model.EmailAddress{{Email: "me@example.com"}},
		Keywords:   map[string]bool{"$seen": true},
		Size:       1024,
		ReceivedAt: receivedAt,
	}
}

func TestUpsertAndRecent(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	emails := []model.Email{
		testEmail("e1", base),
		testEmail("e2", base.Add(2*time.Hour)),
		testEmail("e3", base.Add(time.Hour)),
	}
	if err := c.UpsertEmails(ctx, emails); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	recent, err := c.RecentEmails(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentEmails() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d emails, want 3", len(recent))
	}
	wantOrder := []string{"e2", "e3", "e1"}
	for i, id := range wantOrder {
		if recent[i].ID != id {
			t.Errorf("recent[%d].ID = %q, want %q", i, recent[i].ID, id)
		}
	}

	// Round trip of encoded fields.
	if recent[0].From[0].Email != "ana@example.com" {
		t.Errorf("From not preserved: %+v", recent[0].From)
	}
	if !recent[0].MailboxIDs["inbox"] {
		t.Errorf("MailboxIDs not preserved: %v", recent[0].MailboxIDs)
	}
	if !recent[0].Keywords["$seen"] {
		t.Errorf("Keywords not preserved: %v", recent[0].Keywords)
	}
}

func TestUpsertReplaces(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	email := testEmail("e1", base)
	if err := c.UpsertEmails(ctx, []model.Email{email}); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	email.Subject = "Updated subject"
	email.AISummary = "short summary"
	email.AICategory = model.CategoryWork
	if err := c.UpsertEmails(ctx, []model.Email{email}); err != nil {
		t.Fatalf("UpsertEmails() second call error = %v", err)
	}

	got, ok, err := c.EmailByID(ctx, "e1")
	if err != nil {
		t.Fatalf("EmailByID() error = %v", err)
	}
	if !ok {
		t.Fatal("EmailByID() not found after upsert")
	}
	if got.Subject != "Updated subject" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.AISummary != "short summary" {
		t.Errorf("AISummary = %q", got.AISummary)
	}
	if got.AICategory != model.CategoryWork {
		t.Errorf("AICategory = %q", got.AICategory)
	}

	count, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestEmailByIDMissing(t *testing.T) {
	c := newCache(t)

	_, ok, err := c.EmailByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("EmailByID() error = %v", err)
	}
	if ok {
		t.Error("EmailByID() found a missing email")
	}
}

func TestDeleteEmails(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := c.UpsertEmails(ctx, []model.Email{
		testEmail("e1", base),
		testEmail("e2", base),
	}); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	if err := c.DeleteEmails(ctx, []string{"e1"}); err != nil {
		t.Fatalf("DeleteEmails() error = %v", err)
	}

	if _, ok, _ := c.EmailByID(ctx, "e1"); ok {
		t.Error("e1 still cached after delete")
	}
	if _, ok, _ := c.EmailByID(ctx, "e2"); !ok {
		t.Error("e2 was removed by unrelated delete")
	}
}

func TestPrune(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	var emails []model.Email
	for i := 0; i < 10; i++ {
		emails = append(emails, testEmail(fmt.Sprintf("e%02d", i), base.Add(time.Duration(i)*time.Hour)))
	}
	if err := c.UpsertEmails(ctx, emails); err != nil {
		t.Fatalf("UpsertEmails() error = %v", err)
	}

	if err := c.Prune(ctx, 3); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	recent, err := c.RecentEmails(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentEmails() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d emails after prune, want 3", len(recent))
	}
	// The newest three survive.
	if recent[0].ID != "e09" || recent[2].ID != "e07" {
		t.Errorf("survivors = %q..%q, want e09..e07", recent[0].ID, recent[2].ID)
	}
}

func TestMigrationsAreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.version != i+1 {
			t.Errorf("migrations[%d].version = %d, want %d", i, m.version, i+1)
		}
	}
}
