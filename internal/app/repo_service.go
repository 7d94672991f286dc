package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/depot/internal/core/repo"
	"github.com/example/depot/internal/errs"
	"github.com/example/depot/internal/logging"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// RepoServiceImpl implements the RepoService interface.
type RepoServiceImpl struct {
	repoRepo     secondary.RepoRepository
	distributors primary.DistributorService
	logger       *slog.Logger
}

// NewRepoService creates a new RepoService with injected dependencies.
// distributors is used to tear down a repository's distributors on delete.
func NewRepoService(repoRepo secondary.RepoRepository, distributors primary.DistributorService, logger *slog.Logger) *RepoServiceImpl {
	return &RepoServiceImpl{
		repoRepo:     repoRepo,
		distributors: distributors,
		logger:       logging.Default(logger).With("component", "repo-service"),
	}
}

// CreateRepo creates a new repository.
func (s *RepoServiceImpl) CreateRepo(ctx context.Context, req primary.CreateRepoRequest) (*primary.Repo, error) {
	// Check if ID already exists
	exists := false
	if req.RepoID != "" {
		var err error
		exists, err = s.repoRepo.Exists(ctx, req.RepoID)
		if err != nil {
			return nil, fmt.Errorf("failed to check id uniqueness: %w", err)
		}
	}

	// Evaluate guard
	result := repo.CanCreateRepo(repo.CreateRepoContext{
		RepoID:   req.RepoID,
		IDExists: exists,
	})
	if err := result.Error(); err != nil {
		return nil, err
	}

	record := &secondary.RepoRecord{
		ID:          req.RepoID,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if err := s.repoRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	s.logger.Info("repository created", "repo", req.RepoID)

	// Fetch created repository
	created, err := s.repoRepo.GetByID(ctx, req.RepoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created repository: %w", err)
	}
	if created == nil {
		return nil, errs.MissingResource("repository", req.RepoID)
	}
	return s.recordToRepo(created), nil
}

// GetRepo retrieves a repository by ID.
func (s *RepoServiceImpl) GetRepo(ctx context.Context, repoID string) (*primary.Repo, error) {
	record, err := s.repoRepo.GetByID(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	if record == nil {
		return nil, errs.MissingResource("repository", repoID)
	}
	return s.recordToRepo(record), nil
}

// ListRepos lists all repositories.
func (s *RepoServiceImpl) ListRepos(ctx context.Context) ([]*primary.Repo, error) {
	records, err := s.repoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	repos := make([]*primary.Repo, len(records))
	for i, r := range records {
		repos[i] = s.recordToRepo(r)
	}
	return repos, nil
}

// UpdateRepo updates a repository's descriptive fields.
func (s *RepoServiceImpl) UpdateRepo(ctx context.Context, req primary.UpdateRepoRequest) (*primary.Repo, error) {
	exists, err := s.repoRepo.Exists(ctx, req.RepoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	if !exists {
		return nil, errs.MissingResource("repository", req.RepoID)
	}

	record := &secondary.RepoRecord{
		ID:          req.RepoID,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if err := s.repoRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}
	return s.GetRepo(ctx, req.RepoID)
}

// DeleteRepo removes every distributor on the repository, giving each plugin
// its removal hook, and then deletes the repository itself.
func (s *RepoServiceImpl) DeleteRepo(ctx context.Context, repoID string) error {
	dists, err := s.distributors.GetDistributors(ctx, repoID)
	if err != nil {
		return err
	}

	for _, d := range dists {
		if err := s.distributors.RemoveDistributor(ctx, repoID, d.ID); err != nil {
			return fmt.Errorf("failed to remove distributor %s: %w", d.ID, err)
		}
	}

	if err := s.repoRepo.Delete(ctx, repoID); err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	s.logger.Info("repository deleted", "repo", repoID, "distributors_removed", len(dists))
	return nil
}

// Helper methods

func (s *RepoServiceImpl) recordToRepo(r *secondary.RepoRecord) *primary.Repo {
	return &primary.Repo{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure RepoServiceImpl implements the interface
var _ primary.RepoService = (*RepoServiceImpl)(nil)
