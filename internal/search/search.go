// Package search ranks loaded emails against a free-text query using a
// weighted substring heuristic. Scoring rescans every candidate per
// keystroke; at the few hundred messages kept client-side that is well
// within interactive budget.
package search

import (
	"sort"
	"strings"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// Field weights and prefix bonuses. A field that both contains and
// starts with the query earns both increments.
const (
	subjectWeight     = 100
	subjectPrefix     = 50
	fromDisplayWeight = 80
	fromDisplayPrefix = 40
	fromEmailWeight   = 60
	previewWeight     = 30
)

// Score computes the match score of query against a single email.
// The query must already be lower-cased and trimmed by the caller; an
// empty query is the caller's responsibility to filter out before
// scoring. Zero means no field contained the query.
func Score(query string, email model.Email) int {
	score := 0

	subject := strings.ToLower(email.Subject)
	if strings.Contains(subject, query) {
		score += subjectWeight
		if strings.HasPrefix(subject, query) {
			score += subjectPrefix
		}
	}

	fromDisplay := strings.ToLower(email.FromDisplay())
	if strings.Contains(fromDisplay, query) {
		score += fromDisplayWeight
		if strings.HasPrefix(fromDisplay, query) {
			score += fromDisplayPrefix
		}
	}

	if strings.Contains(strings.ToLower(email.FromEmail()), query) {
		score += fromEmailWeight
	}

	if strings.Contains(strings.ToLower(email.Preview), query) {
		score += previewWeight
	}

	return score
}

// Rank scores every candidate, drops non-matches, and returns at most
// limit emails ordered by score descending. Candidates with equal
// scores keep their relative input order.
func Rank(query string, emails []model.Email, limit int) []model.Email {
	type scored struct {
		score int
		email model.Email
	}

	matches := make([]scored, 0, len(emails))
	for _, e := range emails {
		if s := Score(query, e); s > 0 {
			matches = append(matches, scored{score: s, email: e})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	ranked := make([]model.Email, len(matches))
	for i, m := range matches {
		ranked[i] = m.email
	}
	return ranked
}
