package store

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

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	message_id      TEXT NOT NULL DEFAULT '',
	subject         TEXT NOT NULL DEFAULT '',
	sender          TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL DEFAULT '',
	summary         TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT 'general',
	folder          TEXT NOT NULL DEFAULT 'inbox',
	has_attachments INTEGER NOT NULL DEFAULT 0 CHECK(has_attachments IN (0, 1)),
	is_read         INTEGER NOT NULL DEFAULT 0 CHECK(is_read IN (0, 1)),
	is_starred      INTEGER NOT NULL DEFAULT 0 CHECK(is_starred IN (0, 1)),
	labels          TEXT NOT NULL DEFAULT '[]',
	processed_at    DATETIME NOT NULL
);

-- Only non-empty protocol identifiers participate in deduplication;
-- messages without one may be stored any number of times.
CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_message_id
	ON messages(message_id) WHERE message_id <> '';

CREATE INDEX IF NOT EXISTS idx_messages_category ON messages(category);
CREATE INDEX IF NOT EXISTS idx_messages_folder ON messages(folder);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender);
CREATE INDEX IF NOT EXISTS idx_messages_processed_at ON messages(processed_at);

CREATE TABLE IF NOT EXISTS attachments (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	message_id  TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	is_spam     INTEGER NOT NULL DEFAULT 0 CHECK(is_spam IN (0, 1)),
	uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_attachments_message_id ON attachments(message_id);
CREATE INDEX IF NOT EXISTS idx_attachments_filename ON attachments(filename);

CREATE TABLE IF NOT EXISTS schedules (
	id           TEXT PRIMARY KEY,
	message_id   TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	title        TEXT NOT NULL DEFAULT '',
	event_type   TEXT NOT NULL DEFAULT 'other',
	date         TEXT NOT NULL DEFAULT '',
	time_slot    TEXT NOT NULL DEFAULT '',
	meeting_link TEXT NOT NULL DEFAULT '',
	login_id     TEXT NOT NULL DEFAULT '',
	password     TEXT NOT NULL DEFAULT '',
	extracted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_message_id ON schedules(message_id);
CREATE INDEX IF NOT EXISTS idx_schedules_event_type ON schedules(event_type);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS bills (
	id            TEXT PRIMARY KEY,
	message_id    TEXT NOT NULL UNIQUE REFERENCES messages(id) ON DELETE CASCADE,
	name          TEXT NOT NULL DEFAULT '',
	amount        REAL NOT NULL DEFAULT 0,
	due_date      TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT 'other',
	status        TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'overdue', 'paid')),
	received_date TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
