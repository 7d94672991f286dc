package db

import (
	"database/sql"
	"log/slog"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL() so repository code that references a missing column
// fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Repositories (content repositories that distributors attach to)
CREATE TABLE IF NOT EXISTS repos (
	id TEXT PRIMARY KEY,
	display_name TEXT,
	description TEXT,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Repo distributors (association store keyed by repository and distributor id)
CREATE TABLE IF NOT EXISTS repo_distributors (
	repo_id TEXT NOT NULL,
	id TEXT NOT NULL,
	distributor_type_id TEXT NOT NULL,
	config TEXT NOT NULL DEFAULT '{}',
	auto_publish INTEGER NOT NULL DEFAULT 0,
	scratchpad TEXT,
	last_publish DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (repo_id, id),
	FOREIGN KEY (repo_id) REFERENCES repos(id)
);

CREATE INDEX IF NOT EXISTS idx_repo_distributors_type ON repo_distributors(distributor_type_id);
`

// InitSchema creates the schema on a fresh database or migrates an existing one.
func InitSchema(database *sql.DB, logger *slog.Logger) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database, logger)
	}

	// Fresh install - create modern schema directly and stamp it at the
	// latest version so migrations never run against it.
	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := ensureVersionTable(database); err != nil {
		return err
	}
	_, err = database.Exec("INSERT INTO schema_version (version) VALUES (?)", latestVersion())
	return err
}

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}
