package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs. It reflects the
// state after all migrations.
//
// Tests load it through GetSchemaSQL so repository code and tests cannot
// drift apart. When adding a column: add a migration, update SchemaSQL, then
// run the adapter tests.
const SchemaSQL = `
-- Segmented key/value entries (sessions, submission crumbs, login state, auth mode)
CREATE TABLE IF NOT EXISTS cache_entries (
	segment TEXT NOT NULL,
	key TEXT NOT NULL,
	value BLOB NOT NULL,
	expires_at INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (segment, key)
);

CREATE INDEX IF NOT EXISTS idx_cache_entries_expires ON cache_entries(expires_at);
`

// InitSchema creates the schema on a fresh database and migrates an
// existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	// Fresh installs start at the latest version.
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
