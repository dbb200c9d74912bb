package search

import (
	"testing"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

func email(id, subject, fromName, fromEmail, preview string) model.Email {
	return model.Email{
		ID:      id,
		Subject: subject,
		From:    []model.EmailAddress{{Email: fromEmail, Name: fromName}},
		Preview: preview,
	}
}

func TestScoreWeights(t *testing.T) {
	tests := []struct {
		name  string
		query string
		email model.Email
		want  int
	}{
		{
			"no match",
			"invoice",
			email("1", "Weekly digest", "News", "news@example.com", "top stories"),
			0,
		},
		{
			"subject contains",
			"invoice",
			email("1", "Your invoice is ready", "Billing", "billing@shop.example", ""),
			100,
		},
		{
			"subject prefix stacks",
			"invoice",
			email("1", "Invoice #42", "Billing", "billing@shop.example", ""),
			150,
		},
		{
			"from display contains",
			"ada",
			email("1", "Hello", "Team Ada", "team@example.com", ""),
			80,
		},
		{
			"from display prefix stacks",
			"ada",
			email("1", "Hello", "Ada Lovelace", "al@example.com", ""),
			120,
		},
		{
			"from email contains",
			"billing",
			email("1", "Hello", "Shop", "billing@shop.example", ""),
			60,
		},
		{
			"preview contains",
			"renewal",
			email("1", "Notice", "Shop", "shop@example.com", "your renewal is due"),
			30,
		},
		{
			"all fields stack",
			"ada",
			email("1", "Ada: meeting notes", "Ada Lovelace", "ada@example.com", "ada wrote:"),
			150 + 120 + 60 + 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, tt.email); got != tt.want {
				t.Errorf("Score(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestScoreCaseInsensitiveFields(t *testing.T) {
	e := email("1", "INVOICE #42", "BILLING DEPT", "BILLING@SHOP.EXAMPLE", "")
	if got := Score("invoice", e); got != 150 {
		t.Errorf("Score() against upper-cased fields = %d, want 150", got)
	}
}

func TestRankOrdersByScore(t *testing.T) {
	emails := []model.Email{
		email("preview-only", "Monthly report", "Reports", "noreply@example.com", "see attached invoice"),
		email("subject-hit", "Invoice #42", "Billing", "billing@shop.example", ""),
	}

	ranked := Rank("invoice", emails, 50)
	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d emails, want 2", len(ranked))
	}
	if ranked[0].ID != "subject-hit" {
		t.Errorf("Rank() first = %q, want subject match ahead of preview match", ranked[0].ID)
	}
}

func TestRankDropsNonMatches(t *testing.T) {
	emails := []model.Email{
		email("miss", "Weekly digest", "News", "news@example.com", "top stories"),
		email("hit", "Invoice", "Billing", "billing@shop.example", ""),
	}

	ranked := Rank("invoice", emails, 50)
	if len(ranked) != 1 || ranked[0].ID != "hit" {
		t.Errorf("Rank() = %v, want only the matching email", ranked)
	}
}

func TestRankRespectsLimit(t *testing.T) {
	var emails []model.Email
	for i := 0; i < 10; i++ {
		emails = append(emails, email("e", "invoice", "Billing", "b@example.com", ""))
	}

	if got := len(Rank("invoice", emails, 3)); got != 3 {
		t.Errorf("Rank() returned %d emails, want 3", got)
	}
}

func TestRankStableForEqualScores(t *testing.T) {
	emails := []model.Email{
		email("first", "Invoice A", "Billing", "b@example.com", ""),
		email("second", "Invoice B", "Billing", "b@example.com", ""),
		email("third", "Invoice C", "Billing", "b@example.com", ""),
	}

	ranked := Rank("invoice", emails, 50)
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].ID != want {
			t.Errorf("Rank()[%d] = %q, want %q (input order preserved on ties)", i, ranked[i].ID, want)
		}
	}
}
