// Package cache persists recently fetched emails in a local SQLite
// database so mailbox contents render instantly on startup and remain
// readable offline.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// EmailCache stores email headers and AI annotations in SQLite.
type EmailCache struct {
	db *sqlx.DB
}

// New opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func New(dbPath string) (*EmailCache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// WAL keeps reads cheap while the refresher writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	c := &EmailCache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *EmailCache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *EmailCache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// emailRow is the flat database representation of a cached email.
type emailRow struct {
	ID            string    `db:"id"`
	ThreadID      string    `db:"thread_id"`
	MailboxIDs    string    `db:"mailbox_ids"`
	Subject       string    `db:"subject"`
	Preview       string    `db:"preview"`
	FromAddrs     string    `db:"from_addrs"`
	ToAddrs       string    `db:"to_addrs"`
	Keywords      string    `db:"keywords"`
	Size          int64     `db:"size"`
	HasAttachment bool      `db:"has_attachment"`
	ReceivedAt    time.Time `db:"received_at"`
	CachedAt      time.Time `db:"cached_at"`
	AISummary     string    `db:"ai_summary"`
	AICategory    string    `db:"ai_category"`
}

// UpsertEmails inserts or replaces a batch of emails.
func (c *EmailCache) UpsertEmails(ctx context.Context, emails []model.Email) error {
	if len(emails) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO emails (
			id, thread_id, mailbox_ids, subject, preview,
			from_addrs, to_addrs, keywords,
			size, has_attachment, received_at, cached_at,
			ai_summary, ai_category
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?,
			?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, email := range emails {
		row, err := rowFromEmail(email, now)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			row.ID, row.ThreadID, row.MailboxIDs, row.Subject, row.Preview,
			row.FromAddrs, row.ToAddrs, row.Keywords,
			row.Size, row.HasAttachment, row.ReceivedAt, row.CachedAt,
			row.AISummary, row.AICategory,
		)
		if err != nil {
			return fmt.Errorf("upserting email %s: %w", email.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// RecentEmails returns the most recently received cached emails,
// newest first. A non-empty mailboxID restricts the result to emails
// in that mailbox; an empty one returns emails from all mailboxes.
func (c *EmailCache) RecentEmails(ctx context.Context, mailboxID string, limit int) ([]model.Email, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT * FROM emails ORDER BY received_at DESC LIMIT ?"
	args := []any{limit}
	if mailboxID != "" {
		// mailbox_ids is a JSON object keyed by mailbox id, so a
		// quoted-key substring match is an exact membership test.
		query = "SELECT * FROM emails WHERE instr(mailbox_ids, ?) > 0 ORDER BY received_at DESC LIMIT ?"
		args = []any{`"` + mailboxID + `"`, limit}
	}

	var rows []emailRow
	err := c.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent emails: %w", err)
	}

	emails := make([]model.Email, 0, len(rows))
	for _, row := range rows {
		email, err := emailFromRow(row)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, nil
}

// EmailByID returns a cached email, or false when it is not cached.
func (c *EmailCache) EmailByID(ctx context.Context, id string) (model.Email, bool, error) {
	var row emailRow
	err := c.db.GetContext(ctx, &row, "SELECT * FROM emails WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Email{}, false, nil
	}
	if err != nil {
		return model.Email{}, false, fmt.Errorf("querying email %s: %w", id, err)
	}
	email, err := emailFromRow(row)
	if err != nil {
		return model.Email{}, false, err
	}
	return email, true, nil
}

// DeleteEmails removes emails from the cache.
func (c *EmailCache) DeleteEmails(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM emails WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting emails: %w", err)
	}
	return nil
}

// Prune drops the oldest entries so at most max emails remain.
func (c *EmailCache) Prune(ctx context.Context, max int) error {
	if max <= 0 {
		return nil
	}
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM emails WHERE id NOT IN (
			SELECT id FROM emails ORDER BY received_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}
	return nil
}

// Count returns the number of cached emails.
func (c *EmailCache) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM emails"); err != nil {
		return 0, fmt.Errorf("counting cached emails: %w", err)
	}
	return count, nil
}

func rowFromEmail(email model.Email, cachedAt time.Time) (emailRow, error) {
	mailboxIDs, err := json.Marshal(email.MailboxIDs)
	if err != nil {
		return emailRow{}, fmt.Errorf("encoding mailbox ids: %w", err)
	}
	from, err := json.Marshal(email.From)
	if err != nil {
		return emailRow{}, fmt.Errorf("encoding from addresses: %w", err)
	}
	to, err := json.Marshal(email.To)
	if err != nil {
		return emailRow{}, fmt.Errorf("encoding to addresses: %w", err)
	}
	keywords, err := json.Marshal(email.Keywords)
	if err != nil {
		return emailRow{}, fmt.Errorf("encoding keywords: %w", err)
	}

	return emailRow{
		ID:            email.ID,
		ThreadID:      email.ThreadID,
		MailboxIDs:    string(mailboxIDs),
		Subject:       email.Subject,
		Preview:       email.Preview,
		FromAddrs:     string(from),
		ToAddrs:       string(to),
		Keywords:      string(keywords),
		Size:          email.Size,
		HasAttachment: email.HasAttachment,
		ReceivedAt:    email.ReceivedAt.UTC(),
		CachedAt:      cachedAt,
		AISummary:     email.AISummary,
		AICategory:    string(email.AICategory),
	}, nil
}

func emailFromRow(row emailRow) (model.Email, error) {
	email := model.Email{
		ID:            row.ID,
		ThreadID:      row.ThreadID,
		Subject:       row.Subject,
		Preview:       row.Preview,
		Size:          row.Size,
		HasAttachment: row.HasAttachment,
		ReceivedAt:    row.ReceivedAt,
		AISummary:     row.AISummary,
		AICategory:    model.Category(row.AICategory),
	}
	if err := json.Unmarshal([]byte(row.MailboxIDs), &email.MailboxIDs); err != nil {
		return model.Email{}, fmt.Errorf("decoding mailbox ids for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.FromAddrs), &email.From); err != nil {
		return model.Email{}, fmt.Errorf("decoding from addresses for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.ToAddrs), &email.To); err != nil {
		return model.Email{}, fmt.Errorf("decoding to addresses for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Keywords), &email.Keywords); err != nil {
		return model.Email{}, fmt.Errorf("decoding keywords for %s: %w", row.ID, err)
	}
	return email, nil
}
