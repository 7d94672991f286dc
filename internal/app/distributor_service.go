package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/depot/internal/core/distributor"
	"github.com/example/depot/internal/errs"
	"github.com/example/depot/internal/logging"
	"github.com/example/depot/internal/plugin"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// maxIDAttempts bounds the collision-retry loop for generated distributor IDs.
const maxIDAttempts = 10

// DistributorServiceImpl implements the DistributorService interface.
//
// It owns identity, persistence and consistency of distributor records and
// delegates type-specific behavior to plugins. Failures that would leave the
// store out of line with the caller's intent fail before anything is written.
// Failures that only touch plugin-side state (removal hooks, scratchpad
// writes) are logged and swallowed.
type DistributorServiceImpl struct {
	distributorRepo secondary.DistributorRepository
	repoRepo        secondary.RepoRepository
	plugins         secondary.PluginRegistry
	logger          *slog.Logger
	hookTimeout     time.Duration
	locks           *keyedMutex
	newSuffix       func() string
}

// NewDistributorService creates a new DistributorService with injected dependencies.
// A zero hookTimeout lets plugin hooks run unbounded.
func NewDistributorService(
	distributorRepo secondary.DistributorRepository,
	repoRepo secondary.RepoRepository,
	plugins secondary.PluginRegistry,
	logger *slog.Logger,
	hookTimeout time.Duration,
) *DistributorServiceImpl {
	return &DistributorServiceImpl{
		distributorRepo: distributorRepo,
		repoRepo:        repoRepo,
		plugins:         plugins,
		logger:          logging.Default(logger).With("component", "distributor-manager"),
		hookTimeout:     hookTimeout,
		locks:           newKeyedMutex(),
		newSuffix:       randomSuffix,
	}
}

// AddDistributor adds a distributor to a repository.
func (s *DistributorServiceImpl) AddDistributor(ctx context.Context, req primary.AddDistributorRequest) (*primary.Distributor, error) {
	repoRecord, err := s.repoRepo.GetByID(ctx, req.RepoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	entry, typeRegistered := s.plugins.Resolve(req.TypeID)

	result := distributor.CanAddDistributor(distributor.AddDistributorContext{
		RepoID:         req.RepoID,
		RepoExists:     repoRecord != nil,
		TypeID:         req.TypeID,
		TypeRegistered: typeRegistered,
		DistributorID:  req.DistributorID,
	})
	if err := result.Error(); err != nil {
		return nil, err
	}

	distributorID := req.DistributorID
	if distributorID == "" {
		distributorID, err = s.generateID(ctx, req.RepoID, req.TypeID)
		if err != nil {
			return nil, err
		}
	}

	lease := s.locks.Acquire(distributorKey(req.RepoID, distributorID))
	defer lease.Release()

	view := repoView(repoRecord)
	callConfig := plugin.NewCallConfiguration(entry.Defaults, req.Config, nil)

	// Re-adding under an existing ID replaces the old distributor: tear it
	// down first, then continue as a fresh add.
	existing, err := s.distributorRepo.FindOne(ctx, req.RepoID, distributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing distributor: %w", err)
	}
	if existing != nil {
		s.teardown(ctx, lease, view, existing)
		if _, err := s.distributorRepo.Delete(ctx, req.RepoID, distributorID); err != nil {
			return nil, fmt.Errorf("failed to remove replaced distributor: %w", err)
		}
		s.logger.Info("replacing distributor", "repo", req.RepoID, "distributor", distributorID,
			"old_type", existing.TypeID, "new_type", req.TypeID)
	}

	if err := s.validate(ctx, lease, entry, view, callConfig); err != nil {
		return nil, err
	}

	record := &secondary.DistributorRecord{
		RepoID:      req.RepoID,
		ID:          distributorID,
		TypeID:      req.TypeID,
		Config:      req.Config,
		AutoPublish: req.AutoPublish,
	}
	if err := s.distributorRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save distributor: %w", err)
	}

	_, err = runHook(ctx, lease, s.hookTimeout, "distributor_added", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, entry.Plugin.DistributorAdded(ctx, view, callConfig)
	})
	if err != nil {
		// The record stays: the store is the source of truth and the
		// administrator recovers through update or remove.
		return nil, errs.OperationFailed("distributor_added", distributorID, err)
	}

	s.logger.Info("distributor added", "repo", req.RepoID, "distributor", distributorID, "type", req.TypeID)

	created, err := s.distributorRepo.FindOne(ctx, req.RepoID, distributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created distributor: %w", err)
	}
	if created == nil {
		return nil, errs.MissingResource("distributor", distributorID)
	}
	return recordToDistributor(created), nil
}

// RemoveDistributor removes a distributor. Removing a missing distributor is a no-op.
func (s *DistributorServiceImpl) RemoveDistributor(ctx context.Context, repoID, distributorID string) error {
	repoRecord, err := s.repoRepo.GetByID(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to look up repository: %w", err)
	}
	if repoRecord == nil {
		return errs.MissingResource("repository", repoID)
	}

	lease := s.locks.Acquire(distributorKey(repoID, distributorID))
	defer lease.Release()

	existing, err := s.distributorRepo.FindOne(ctx, repoID, distributorID)
	if err != nil {
		return fmt.Errorf("failed to get distributor: %w", err)
	}
	if existing == nil {
		return nil
	}

	s.teardown(ctx, lease, repoView(repoRecord), existing)

	if _, err := s.distributorRepo.Delete(ctx, repoID, distributorID); err != nil {
		return fmt.Errorf("failed to delete distributor: %w", err)
	}

	s.logger.Info("distributor removed", "repo", repoID, "distributor", distributorID)
	return nil
}

// UpdateDistributorConfig replaces a distributor's configuration. The stored
// config is only overwritten once the plugin has accepted the new one.
func (s *DistributorServiceImpl) UpdateDistributorConfig(ctx context.Context, req primary.UpdateDistributorRequest) (*primary.Distributor, error) {
	repoRecord, err := s.repoRepo.GetByID(ctx, req.RepoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	if repoRecord == nil {
		return nil, errs.MissingResource("repository", req.RepoID)
	}

	lease := s.locks.Acquire(distributorKey(req.RepoID, req.DistributorID))
	defer lease.Release()

	existing, err := s.distributorRepo.FindOne(ctx, req.RepoID, req.DistributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributor: %w", err)
	}

	var (
		entry          plugin.Entry
		typeRegistered bool
		typeID         string
	)
	if existing != nil {
		typeID = existing.TypeID
		entry, typeRegistered = s.plugins.Resolve(typeID)
	}

	result := distributor.CanUpdateDistributor(distributor.UpdateDistributorContext{
		RepoID:            req.RepoID,
		RepoExists:        true,
		DistributorID:     req.DistributorID,
		DistributorExists: existing != nil,
		TypeID:            typeID,
		TypeRegistered:    typeRegistered,
	})
	if err := result.Error(); err != nil {
		return nil, err
	}

	view := repoView(repoRecord)
	callConfig := plugin.NewCallConfiguration(entry.Defaults, req.Config, nil)
	if err := s.validate(ctx, lease, entry, view, callConfig); err != nil {
		return nil, err
	}

	if err := s.distributorRepo.UpdateConfig(ctx, req.RepoID, req.DistributorID, req.Config, req.AutoPublish); err != nil {
		return nil, fmt.Errorf("failed to update distributor: %w", err)
	}

	s.logger.Info("distributor config updated", "repo", req.RepoID, "distributor", req.DistributorID)

	updated, err := s.distributorRepo.FindOne(ctx, req.RepoID, req.DistributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated distributor: %w", err)
	}
	if updated == nil {
		return nil, errs.MissingResource("distributor", req.DistributorID)
	}
	return recordToDistributor(updated), nil
}

// GetDistributor retrieves a single distributor.
func (s *DistributorServiceImpl) GetDistributor(ctx context.Context, repoID, distributorID string) (*primary.Distributor, error) {
	exists, err := s.repoRepo.Exists(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	if !exists {
		return nil, &errs.Error{
			Kind:    errs.KindMissingResource,
			Message: fmt.Sprintf("repository %q not found, cannot get distributor %q", repoID, distributorID),
			Value:   repoID,
		}
	}

	record, err := s.distributorRepo.FindOne(ctx, repoID, distributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributor: %w", err)
	}
	if record == nil {
		return nil, &errs.Error{
			Kind:    errs.KindMissingResource,
			Message: fmt.Sprintf("distributor %q not found on repository %q", distributorID, repoID),
			Value:   distributorID,
		}
	}
	return recordToDistributor(record), nil
}

// GetDistributors lists every distributor on a repository.
// A repository without distributors yields an empty slice.
func (s *DistributorServiceImpl) GetDistributors(ctx context.Context, repoID string) ([]*primary.Distributor, error) {
	exists, err := s.repoRepo.Exists(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository: %w", err)
	}
	if !exists {
		return nil, errs.MissingResource("repository", repoID)
	}

	records, err := s.distributorRepo.FindByRepo(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributors: %w", err)
	}

	distributors := make([]*primary.Distributor, len(records))
	for i, r := range records {
		distributors[i] = recordToDistributor(r)
	}
	return distributors, nil
}

// GetDistributorScratchpad returns the stored scratchpad, or nil when the
// repository, the distributor or the scratchpad itself is absent. The value
// comes back in its JSON shape: objects as map[string]any, arrays as []any and
// numbers as json.Number, which keeps integers of any size exact.
func (s *DistributorServiceImpl) GetDistributorScratchpad(ctx context.Context, repoID, distributorID string) any {
	record, err := s.distributorRepo.FindOne(ctx, repoID, distributorID)
	if err != nil {
		s.logger.Warn("failed to read scratchpad", "repo", repoID, "distributor", distributorID, "error", err)
		return nil
	}
	if record == nil {
		return nil
	}
	return record.Scratchpad
}

// SetDistributorScratchpad stores the scratchpad. Missing targets and store
// failures are not surfaced.
func (s *DistributorServiceImpl) SetDistributorScratchpad(ctx context.Context, repoID, distributorID string, value any) {
	unlock := s.locks.Lock(distributorKey(repoID, distributorID))
	defer unlock()

	found, err := s.distributorRepo.SetScratchpad(ctx, repoID, distributorID, value)
	if err != nil {
		s.logger.Warn("failed to write scratchpad", "repo", repoID, "distributor", distributorID, "error", err)
		return
	}
	if !found {
		s.logger.Debug("scratchpad target missing", "repo", repoID, "distributor", distributorID)
	}
}

// RecordPublish stamps the time of a distributor's last publish.
func (s *DistributorServiceImpl) RecordPublish(ctx context.Context, repoID, distributorID string, at time.Time) error {
	exists, err := s.repoRepo.Exists(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to look up repository: %w", err)
	}
	if !exists {
		return errs.MissingResource("repository", repoID)
	}

	unlock := s.locks.Lock(distributorKey(repoID, distributorID))
	defer unlock()

	found, err := s.distributorRepo.SetLastPublish(ctx, repoID, distributorID, at)
	if err != nil {
		return fmt.Errorf("failed to record publish: %w", err)
	}
	if !found {
		return errs.MissingResource("distributor", distributorID)
	}
	return nil
}

// FindAutoPublish lists the distributors on a repository flagged for auto-publish.
func (s *DistributorServiceImpl) FindAutoPublish(ctx context.Context, repoID string) ([]*primary.Distributor, error) {
	all, err := s.GetDistributors(ctx, repoID)
	if err != nil {
		return nil, err
	}

	auto := []*primary.Distributor{}
	for _, d := range all {
		if d.AutoPublish {
			auto = append(auto, d)
		}
	}
	return auto, nil
}

// Helper methods

// validate runs the plugin's validate_config hook. A false return or an
// error rejects the configuration.
func (s *DistributorServiceImpl) validate(ctx context.Context, lease *keyLease, entry plugin.Entry, view plugin.RepositoryView, callConfig *plugin.CallConfiguration) error {
	valid, err := runHook(ctx, lease, s.hookTimeout, "validate_config", func(ctx context.Context) (bool, error) {
		return entry.Plugin.ValidateConfig(ctx, view, callConfig)
	})
	if err != nil || !valid {
		return errs.InvalidConfiguration(entry.TypeID, err)
	}
	return nil
}

// teardown invokes the removal hook for a stored distributor. Failures,
// including an unregistered type, are logged and never block removal.
func (s *DistributorServiceImpl) teardown(ctx context.Context, lease *keyLease, view plugin.RepositoryView, record *secondary.DistributorRecord) {
	entry, ok := s.plugins.Resolve(record.TypeID)
	if !ok {
		s.logger.Warn("skipping removal hook for unregistered type",
			"repo", record.RepoID, "distributor", record.ID, "type", record.TypeID)
		return
	}

	callConfig := plugin.NewCallConfiguration(entry.Defaults, record.Config, nil)
	_, err := runHook(ctx, lease, s.hookTimeout, "distributor_removed", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, entry.Plugin.DistributorRemoved(ctx, view, callConfig)
	})
	if err != nil {
		s.logger.Warn("distributor removal hook failed",
			"repo", record.RepoID, "distributor", record.ID, "type", record.TypeID, "error", err)
	}
}

// generateID derives a distributor ID from the type, retrying on collision.
func (s *DistributorServiceImpl) generateID(ctx context.Context, repoID, typeID string) (string, error) {
	for range maxIDAttempts {
		candidate := distributor.GenerateID(typeID, s.newSuffix())
		existing, err := s.distributorRepo.FindOne(ctx, repoID, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check distributor id: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique distributor id for type %s after %d attempts", typeID, maxIDAttempts)
}

func randomSuffix() string {
	id := uuid.New()
	return id.String()[:8]
}

func repoView(r *secondary.RepoRecord) plugin.RepositoryView {
	return plugin.RepositoryView{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Description: r.Description,
		Notes:       r.Notes,
	}
}

func recordToDistributor(r *secondary.DistributorRecord) *primary.Distributor {
	return &primary.Distributor{
		ID:          r.ID,
		RepoID:      r.RepoID,
		TypeID:      r.TypeID,
		Config:      r.Config,
		AutoPublish: r.AutoPublish,
		Scratchpad:  r.Scratchpad,
		LastPublish: r.LastPublish,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure DistributorServiceImpl implements the interface
var _ primary.DistributorService = (*DistributorServiceImpl)(nil)
