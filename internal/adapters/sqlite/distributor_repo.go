package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/depot/internal/ports/secondary"
)

// DistributorRepository implements secondary.DistributorRepository with SQLite.
// Config and scratchpad are stored as JSON text so unknown keys round-trip untouched.
type DistributorRepository struct {
	db *sql.DB
}

// NewDistributorRepository creates a new SQLite distributor repository.
func NewDistributorRepository(db *sql.DB) *DistributorRepository {
	return &DistributorRepository{db: db}
}

const distributorColumns = "repo_id, id, distributor_type_id, config, auto_publish, scratchpad, last_publish, created_at, updated_at"

// Upsert atomically inserts a distributor or replaces the one stored under
// the same (repo_id, id). A replaced distributor starts with an empty
// scratchpad and no publish history.
func (r *DistributorRepository) Upsert(ctx context.Context, record *secondary.DistributorRecord) error {
	config, err := encodeConfig(record.Config)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO repo_distributors (repo_id, id, distributor_type_id, config, auto_publish)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(repo_id, id) DO UPDATE SET
			distributor_type_id = excluded.distributor_type_id,
			config = excluded.config,
			auto_publish = excluded.auto_publish,
			scratchpad = NULL,
			last_publish = NULL,
			created_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP`,
		record.RepoID, record.ID, record.TypeID, config, record.AutoPublish,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert distributor: %w", err)
	}

	return nil
}

// FindOne retrieves a single distributor.
func (r *DistributorRepository) FindOne(ctx context.Context, repoID, id string) (*secondary.DistributorRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+distributorColumns+" FROM repo_distributors WHERE repo_id = ? AND id = ?",
		repoID, id,
	)

	record, err := scanDistributor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distributor: %w", err)
	}
	return record, nil
}

// FindByRepo retrieves every distributor on a repository ordered by ID.
// A repository without distributors yields an empty, non-nil slice.
func (r *DistributorRepository) FindByRepo(ctx context.Context, repoID string) ([]*secondary.DistributorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+distributorColumns+" FROM repo_distributors WHERE repo_id = ? ORDER BY id ASC",
		repoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributors: %w", err)
	}
	defer rows.Close()

	records := []*secondary.DistributorRecord{}
	for rows.Next() {
		record, err := scanDistributor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distributor: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a distributor, reporting whether a record was removed.
func (r *DistributorRepository) Delete(ctx context.Context, repoID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM repo_distributors WHERE repo_id = ? AND id = ?",
		repoID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete distributor: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// UpdateConfig overwrites the config and, when autoPublish is non-nil, the auto-publish flag.
func (r *DistributorRepository) UpdateConfig(ctx context.Context, repoID, id string, config map[string]any, autoPublish *bool) error {
	encoded, err := encodeConfig(config)
	if err != nil {
		return err
	}

	query := "UPDATE repo_distributors SET config = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{encoded}

	if autoPublish != nil {
		query += ", auto_publish = ?"
		args = append(args, *autoPublish)
	}

	query += " WHERE repo_id = ? AND id = ?"
	args = append(args, repoID, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update distributor config: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("distributor %s on repository %s not found", id, repoID)
	}

	return nil
}

// SetScratchpad stores the opaque scratchpad value.
func (r *DistributorRepository) SetScratchpad(ctx context.Context, repoID, id string, value any) (bool, error) {
	var encoded sql.NullString
	if value != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return false, fmt.Errorf("failed to encode scratchpad: %w", err)
		}
		encoded = sql.NullString{String: string(data), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE repo_distributors SET scratchpad = ? WHERE repo_id = ? AND id = ?",
		encoded, repoID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set scratchpad: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// SetLastPublish records the last publish time.
func (r *DistributorRepository) SetLastPublish(ctx context.Context, repoID, id string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE repo_distributors SET last_publish = ? WHERE repo_id = ? AND id = ?",
		at.UTC(), repoID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set last publish: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func scanDistributor(row rowScanner) (*secondary.DistributorRecord, error) {
	var (
		config      string
		scratchpad  sql.NullString
		lastPublish sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.DistributorRecord{}
	err := row.Scan(&record.RepoID, &record.ID, &record.TypeID, &config, &record.AutoPublish,
		&scratchpad, &lastPublish, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if config != "" && config != "null" {
		if err := json.Unmarshal([]byte(config), &record.Config); err != nil {
			return nil, fmt.Errorf("failed to decode config for %s: %w", record.ID, err)
		}
	}
	if scratchpad.Valid {
		value, err := decodeScratchpad(scratchpad.String)
		if err != nil {
			return nil, fmt.Errorf("failed to decode scratchpad for %s: %w", record.ID, err)
		}
		record.Scratchpad = value
	}
	if lastPublish.Valid {
		t := lastPublish.Time
		record.LastPublish = &t
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// decodeScratchpad decodes a stored scratchpad. Numbers come back as
// json.Number so integers beyond 2^53 keep every digit.
func decodeScratchpad(data string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// encodeConfig stores a nil config as JSON null so it reads back as nil.
func encodeConfig(config map[string]any) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

// Ensure DistributorRepository implements the interface
var _ secondary.DistributorRepository = (*DistributorRepository)(nil)
