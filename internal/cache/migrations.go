package cache

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
	id             TEXT PRIMARY KEY,
	thread_id      TEXT NOT NULL DEFAULT '',
	mailbox_ids    TEXT NOT NULL DEFAULT '{}',
	subject        TEXT NOT NULL DEFAULT '',
	preview        TEXT NOT NULL DEFAULT '',
	from_addrs     TEXT NOT NULL DEFAULT '[]',
	to_addrs       TEXT NOT NULL DEFAULT '[]',
	keywords       TEXT NOT NULL DEFAULT '{}',
	size           INTEGER NOT NULL DEFAULT 0,
	has_attachment INTEGER NOT NULL DEFAULT 0,
	received_at    DATETIME NOT NULL,
	cached_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_emails_received_at ON emails(received_at);
CREATE INDEX IF NOT EXISTS idx_emails_thread_id ON emails(thread_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE emails ADD COLUMN ai_summary TEXT NOT NULL DEFAULT '';
ALTER TABLE emails ADD COLUMN ai_category TEXT NOT NULL DEFAULT '';

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
