// Package secondary defines the secondary ports (driven adapters) used by the
// application services: persistence and plugin lookup.
package secondary

import (
	"context"
	"time"
)

// RepoRepository defines the secondary port for repository persistence.
// It also serves as the repository existence oracle for distributor operations.
type RepoRepository interface {
	// Create persists a new repository.
	Create(ctx context.Context, repo *RepoRecord) error

	// GetByID retrieves a repository by its ID.
	// Returns nil, nil if the repository does not exist.
	GetByID(ctx context.Context, id string) (*RepoRecord, error)

	// Exists reports whether a repository with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// List retrieves all repositories ordered by ID.
	List(ctx context.Context) ([]*RepoRecord, error)

	// Update updates an existing repository's descriptive fields.
	Update(ctx context.Context, repo *RepoRecord) error

	// Delete removes a repository from persistence.
	Delete(ctx context.Context, id string) error
}

// RepoRecord represents a repository as stored in persistence.
type RepoRecord struct {
	ID          string
	DisplayName string // Empty string means null
	Description string // Empty string means null
	Notes       map[string]string
	CreatedAt   string
	UpdatedAt   string
}

// DistributorRepository defines the secondary port for the distributor
// association store, keyed by (repository ID, distributor ID).
type DistributorRepository interface {
	// Upsert atomically inserts or replaces a distributor record.
	// Replacing resets the scratchpad and last publish time.
	Upsert(ctx context.Context, record *DistributorRecord) error

	// FindOne retrieves a single distributor.
	// Returns nil, nil if the distributor does not exist.
	FindOne(ctx context.Context, repoID, id string) (*DistributorRecord, error)

	// FindByRepo retrieves every distributor on a repository ordered by ID.
	FindByRepo(ctx context.Context, repoID string) ([]*DistributorRecord, error)

	// Delete removes a distributor, reporting whether a record was removed.
	Delete(ctx context.Context, repoID, id string) (bool, error)

	// UpdateConfig overwrites the config and, when autoPublish is non-nil, the auto-publish flag.
	UpdateConfig(ctx context.Context, repoID, id string, config map[string]any, autoPublish *bool) error

	// SetScratchpad stores the opaque scratchpad value, reporting whether the distributor exists.
	SetScratchpad(ctx context.Context, repoID, id string, value any) (bool, error)

	// SetLastPublish records the last publish time, reporting whether the distributor exists.
	SetLastPublish(ctx context.Context, repoID, id string, at time.Time) (bool, error)
}

// DistributorRecord represents a distributor as stored in persistence.
type DistributorRecord struct {
	RepoID      string
	ID          string
	TypeID      string
	Config      map[string]any
	AutoPublish bool
	Scratchpad  any        // nil until first write
	LastPublish *time.Time // nil until first publish
	CreatedAt   string
	UpdatedAt   string
}
