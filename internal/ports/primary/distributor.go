package primary

import (
	"context"
	"time"
)

// DistributorService defines the primary port for distributor lifecycle operations.
type DistributorService interface {
	// AddDistributor adds a distributor to a repository, replacing any existing
	// distributor registered under the same ID.
	AddDistributor(ctx context.Context, req AddDistributorRequest) (*Distributor, error)

	// RemoveDistributor removes a distributor. Removing a missing distributor is a no-op.
	RemoveDistributor(ctx context.Context, repoID, distributorID string) error

	// UpdateDistributorConfig replaces a distributor's configuration after the
	// plugin has accepted it.
	UpdateDistributorConfig(ctx context.Context, req UpdateDistributorRequest) (*Distributor, error)

	// GetDistributor retrieves a single distributor.
	GetDistributor(ctx context.Context, repoID, distributorID string) (*Distributor, error)

	// GetDistributors lists every distributor on a repository.
	GetDistributors(ctx context.Context, repoID string) ([]*Distributor, error)

	// GetDistributorScratchpad returns the plugin scratchpad, or nil if unset or missing.
	// Numbers read back as json.Number.
	GetDistributorScratchpad(ctx context.Context, repoID, distributorID string) any

	// SetDistributorScratchpad stores the plugin scratchpad. Missing targets are ignored.
	SetDistributorScratchpad(ctx context.Context, repoID, distributorID string, value any)

	// RecordPublish stamps the time of a distributor's last publish.
	RecordPublish(ctx context.Context, repoID, distributorID string, at time.Time) error

	// FindAutoPublish lists the distributors on a repository flagged for auto-publish.
	FindAutoPublish(ctx context.Context, repoID string) ([]*Distributor, error)
}

// AddDistributorRequest contains parameters for adding a distributor.
type AddDistributorRequest struct {
	RepoID        string
	TypeID        string
	Config        map[string]any
	AutoPublish   bool
	DistributorID string // optional; generated from TypeID when empty
}

// UpdateDistributorRequest contains parameters for updating a distributor.
type UpdateDistributorRequest struct {
	RepoID        string
	DistributorID string
	Config        map[string]any
	AutoPublish   *bool // nil leaves the flag unchanged
}

// Distributor represents a distributor entity at the port boundary.
type Distributor struct {
	ID          string
	RepoID      string
	TypeID      string
	Config      map[string]any
	AutoPublish bool
	Scratchpad  any
	LastPublish *time.Time
	CreatedAt   string
	UpdatedAt   string
}
