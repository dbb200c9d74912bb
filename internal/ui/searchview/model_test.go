package searchview

import (
	"fmt"
	"testing"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

func TestEmptyQueryShowsRecentEmails(t *testing.T) {
	emails := make([]model.Email, 60)
	for i := range emails {
		emails[i] = model.Email{ID: fmt.Sprintf("e%02d", i), Subject: fmt.Sprintf("Subject %d", i)}
	}

	m := New(80, 24)
	m.SetEmails(emails)

	if len(m.results) != resultLimit {
		t.Fatalf("empty query shows %d results, want %d", len(m.results), resultLimit)
	}
	if m.results[0].ID != "e00" {
		t.Errorf("empty query results start at %q, want the first email", m.results[0].ID)
	}
}

func TestQueryRanksResults(t *testing.T) {
	emails := []model.Email{
		{ID: "1", Subject: "Weekly report"},
		{ID: "2", Subject: "Invoice attached", Preview: "report inside"},
		{ID: "3", Subject: "Lunch?"},
	}

	m := New(80, 24)
	m.SetEmails(emails)
	m.input.SetValue("report")
	m.rank()

	if len(m.results) != 2 {
		t.Fatalf("got %d results, want 2", len(m.results))
	}
	// A subject match outranks a preview match.
	if m.results[0].ID != "1" {
		t.Errorf("top result = %q, want the subject match", m.results[0].ID)
	}
}

func TestMixedCaseQueryMatches(t *testing.T) {
	emails := []model.Email{
		{ID: "1", Subject: "Invoice #42"},
		{ID: "2", Subject: "Lunch?"},
	}

	m := New(80, 24)
	m.SetEmails(emails)
	m.input.SetValue("Invoice")
	m.rank()

	if len(m.results) != 1 {
		t.Fatalf("mixed-case query matched %d emails, want 1", len(m.results))
	}
	if m.results[0].ID != "1" {
		t.Errorf("top result = %q, want the invoice email", m.results[0].ID)
	}
}

func TestCursorResetsWhenResultsShrink(t *testing.T) {
	emails := []model.Email{
		{ID: "1", Subject: "alpha"},
		{ID: "2", Subject: "beta"},
	}

	m := New(80, 24)
	m.SetEmails(emails)
	m.cursor = 1
	m.input.SetValue("alpha")
	m.rank()

	if m.cursor != 0 {
		t.Errorf("cursor = %d after results shrank, want 0", m.cursor)
	}
}
