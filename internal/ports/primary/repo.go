package primary

import "context"

// RepoService defines the primary port for repository operations.
type RepoService interface {
	// CreateRepo creates a new repository.
	CreateRepo(ctx context.Context, req CreateRepoRequest) (*Repo, error)

	// GetRepo retrieves a repository by ID.
	GetRepo(ctx context.Context, repoID string) (*Repo, error)

	// ListRepos lists all repositories.
	ListRepos(ctx context.Context) ([]*Repo, error)

	// UpdateRepo updates a repository's descriptive fields.
	UpdateRepo(ctx context.Context, req UpdateRepoRequest) (*Repo, error)

	// DeleteRepo removes a repository and tears down its distributors.
	DeleteRepo(ctx context.Context, repoID string) error
}

// CreateRepoRequest contains parameters for creating a repository.
type CreateRepoRequest struct {
	RepoID      string
	DisplayName string
	Description string
	Notes       map[string]string
}

// UpdateRepoRequest contains parameters for updating a repository.
// Empty fields are left unchanged.
type UpdateRepoRequest struct {
	RepoID      string
	DisplayName string
	Description string
	Notes       map[string]string
}

// Repo represents a repository entity at the port boundary.
type Repo struct {
	ID          string
	DisplayName string
	Description string
	Notes       map[string]string
	CreatedAt   string
	UpdatedAt   string
}
