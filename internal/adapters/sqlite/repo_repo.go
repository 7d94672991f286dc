// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/depot/internal/ports/secondary"
)

// RepoRepository implements secondary.RepoRepository with SQLite.
type RepoRepository struct {
	db *sql.DB
}

// NewRepoRepository creates a new SQLite repository repository.
func NewRepoRepository(db *sql.DB) *RepoRepository {
	return &RepoRepository{db: db}
}

const repoColumns = "id, display_name, description, notes, created_at, updated_at"

// Create persists a new repository.
func (r *RepoRepository) Create(ctx context.Context, repo *secondary.RepoRecord) error {
	notes, err := encodeNotes(repo.Notes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO repos (id, display_name, description, notes) VALUES (?, ?, ?, ?)",
		repo.ID, nullString(repo.DisplayName), nullString(repo.Description), notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create repo: %w", err)
	}

	return nil
}

// GetByID retrieves a repository by its ID.
func (r *RepoRepository) GetByID(ctx context.Context, id string) (*secondary.RepoRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+repoColumns+" FROM repos WHERE id = ?", id)

	record, err := scanRepo(row)
	if err == sql.ErrNoRows {
		return nil, nil // Return nil, nil for "not found" to distinguish from errors
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return record, nil
}

// Exists reports whether a repository with the given ID exists.
func (r *RepoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM repos WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check repository existence: %w", err)
	}
	return count > 0, nil
}

// List retrieves all repositories ordered by ID.
func (r *RepoRepository) List(ctx context.Context) ([]*secondary.RepoRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+repoColumns+" FROM repos ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	var repos []*secondary.RepoRecord
	for rows.Next() {
		record, err := scanRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, record)
	}

	return repos, rows.Err()
}

// Update updates an existing repository. Empty fields are left unchanged.
func (r *RepoRepository) Update(ctx context.Context, repo *secondary.RepoRecord) error {
	query := "UPDATE repos SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if repo.DisplayName != "" {
		query += ", display_name = ?"
		args = append(args, repo.DisplayName)
	}

	if repo.Description != "" {
		query += ", description = ?"
		args = append(args, repo.Description)
	}

	if repo.Notes != nil {
		notes, err := encodeNotes(repo.Notes)
		if err != nil {
			return err
		}
		query += ", notes = ?"
		args = append(args, notes)
	}

	query += " WHERE id = ?"
	args = append(args, repo.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update repository: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repository %s not found", repo.ID)
	}

	return nil
}

// Delete removes a repository from persistence.
func (r *RepoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM repos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repository %s not found", id)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepo(row rowScanner) (*secondary.RepoRecord, error) {
	var (
		displayName sql.NullString
		description sql.NullString
		notes       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.RepoRecord{}
	if err := row.Scan(&record.ID, &displayName, &description, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	record.DisplayName = displayName.String
	record.Description = description.String
	if notes.Valid && notes.String != "" {
		if err := json.Unmarshal([]byte(notes.String), &record.Notes); err != nil {
			return nil, fmt.Errorf("failed to decode notes for %s: %w", record.ID, err)
		}
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

func encodeNotes(notes map[string]string) (sql.NullString, error) {
	if len(notes) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode notes: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure RepoRepository implements the interface
var _ secondary.RepoRepository = (*RepoRepository)(nil)
