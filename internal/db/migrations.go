package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/example/depot/internal/logging"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_repos_and_repo_distributors",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_last_publish_to_repo_distributors",
		Up:      migrationV2,
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

func ensureVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB, logger *slog.Logger) error {
	logger = logging.Default(logger)

	if err := ensureVersionTable(database); err != nil {
		return err
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the original repos and repo_distributors tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS repos (
			id TEXT PRIMARY KEY,
			display_name TEXT,
			description TEXT,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS repo_distributors (
			repo_id TEXT NOT NULL,
			id TEXT NOT NULL,
			distributor_type_id TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			auto_publish INTEGER NOT NULL DEFAULT 0,
			scratchpad TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (repo_id, id),
			FOREIGN KEY (repo_id) REFERENCES repos(id)
		);

		CREATE INDEX IF NOT EXISTS idx_repo_distributors_type ON repo_distributors(distributor_type_id);
	`)
	return err
}

// migrationV2 adds the last publish timestamp to distributors.
func migrationV2(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('repo_distributors') WHERE name = 'last_publish'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE repo_distributors ADD COLUMN last_publish DATETIME")
	return err
}
