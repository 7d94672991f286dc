package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/example/depot/internal/plugin"
	"github.com/example/depot/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.RepoRepository        = (*mockRepoRepository)(nil)
	_ secondary.DistributorRepository = (*mockDistributorRepository)(nil)
	_ plugin.Distributor              = (*mockPlugin)(nil)
)

// mockRepoRepository implements secondary.RepoRepository for testing.
type mockRepoRepository struct {
	mu        sync.Mutex
	repos     map[string]*secondary.RepoRecord
	getErr    error
	deleteErr error
}

func newMockRepoRepository(ids ...string) *mockRepoRepository {
	m := &mockRepoRepository{repos: make(map[string]*secondary.RepoRecord)}
	for _, id := range ids {
		m.repos[id] = &secondary.RepoRecord{ID: id}
	}
	return m
}

func (m *mockRepoRepository) Create(ctx context.Context, repo *secondary.RepoRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.repos[repo.ID]; ok {
		return fmt.Errorf("repository %s already exists", repo.ID)
	}
	copied := *repo
	copied.CreatedAt = "2026-01-01T00:00:00Z"
	copied.UpdatedAt = copied.CreatedAt
	m.repos[repo.ID] = &copied
	return nil
}

func (m *mockRepoRepository) GetByID(ctx context.Context, id string) (*secondary.RepoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.repos[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil // nil, nil means not found (not an error)
}

func (m *mockRepoRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	_, ok := m.repos[id]
	return ok, nil
}

func (m *mockRepoRepository) List(ctx context.Context) ([]*secondary.RepoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*secondary.RepoRecord{}
	for _, id := range slices.Sorted(maps.Keys(m.repos)) {
		result = append(result, m.repos[id])
	}
	return result, nil
}

func (m *mockRepoRepository) Update(ctx context.Context, repo *secondary.RepoRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.repos[repo.ID]
	if !ok {
		return fmt.Errorf("repository %s not found", repo.ID)
	}
	if repo.DisplayName != "" {
		existing.DisplayName = repo.DisplayName
	}
	if repo.Description != "" {
		existing.Description = repo.Description
	}
	if repo.Notes != nil {
		existing.Notes = repo.Notes
	}
	return nil
}

func (m *mockRepoRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.repos[id]; !ok {
		return fmt.Errorf("repository %s not found", id)
	}
	delete(m.repos, id)
	return nil
}

// mockDistributorRepository is an in-memory association store keyed by (repo, id).
type mockDistributorRepository struct {
	mu        sync.Mutex
	records   map[string]*secondary.DistributorRecord
	upsertErr error
	findCalls int
}

func newMockDistributorRepository() *mockDistributorRepository {
	return &mockDistributorRepository{records: make(map[string]*secondary.DistributorRecord)}
}

func (m *mockDistributorRepository) Upsert(ctx context.Context, record *secondary.DistributorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	copied := *record
	copied.Config = maps.Clone(record.Config)
	copied.Scratchpad = nil
	copied.LastPublish = nil
	copied.CreatedAt = "2026-01-01T00:00:00Z"
	copied.UpdatedAt = copied.CreatedAt
	m.records[distributorKey(record.RepoID, record.ID)] = &copied
	return nil
}

func (m *mockDistributorRepository) FindOne(ctx context.Context, repoID, id string) (*secondary.DistributorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	r, ok := m.records[distributorKey(repoID, id)]
	if !ok {
		return nil, nil
	}
	copied := *r
	copied.Config = maps.Clone(r.Config)
	return &copied, nil
}

func (m *mockDistributorRepository) FindByRepo(ctx context.Context, repoID string) ([]*secondary.DistributorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*secondary.DistributorRecord{}
	for _, key := range slices.Sorted(maps.Keys(m.records)) {
		r := m.records[key]
		if r.RepoID == repoID {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockDistributorRepository) Delete(ctx context.Context, repoID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := distributorKey(repoID, id)
	if _, ok := m.records[key]; !ok {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

func (m *mockDistributorRepository) UpdateConfig(ctx context.Context, repoID, id string, config map[string]any, autoPublish *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[distributorKey(repoID, id)]
	if !ok {
		return fmt.Errorf("distributor %s not found", id)
	}
	r.Config = maps.Clone(config)
	if autoPublish != nil {
		r.AutoPublish = *autoPublish
	}
	return nil
}

func (m *mockDistributorRepository) SetScratchpad(ctx context.Context, repoID, id string, value any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[distributorKey(repoID, id)]
	if !ok {
		return false, nil
	}
	r.Scratchpad = value
	return true, nil
}

func (m *mockDistributorRepository) SetLastPublish(ctx context.Context, repoID, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[distributorKey(repoID, id)]
	if !ok {
		return false, nil
	}
	at = at.UTC()
	r.LastPublish = &at
	return true, nil
}

func (m *mockDistributorRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// hookCall records the arguments a plugin hook was invoked with.
type hookCall struct {
	repo   plugin.RepositoryView
	config *plugin.CallConfiguration
}

// mockPlugin records hook invocations and returns configurable results.
type mockPlugin struct {
	mu sync.Mutex

	validateResult bool
	validateErr    error
	validatePanic  any
	validateBlock  chan struct{}
	addedErr       error
	removedErr     error
	removedBlock   chan struct{}

	validateCalls []hookCall
	addedCalls    []hookCall
	removedCalls  []hookCall
	sequence      []string
}

func newMockPlugin() *mockPlugin {
	return &mockPlugin{validateResult: true}
}

func (p *mockPlugin) ValidateConfig(ctx context.Context, repo plugin.RepositoryView, config *plugin.CallConfiguration) (bool, error) {
	p.mu.Lock()
	p.validateCalls = append(p.validateCalls, hookCall{repo: repo, config: config})
	p.sequence = append(p.sequence, "validate")
	block, panicValue, result, err := p.validateBlock, p.validatePanic, p.validateResult, p.validateErr
	p.mu.Unlock()

	if block != nil {
		<-block
	}
	if panicValue != nil {
		panic(panicValue)
	}
	return result, err
}

func (p *mockPlugin) DistributorAdded(ctx context.Context, repo plugin.RepositoryView, config *plugin.CallConfiguration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addedCalls = append(p.addedCalls, hookCall{repo: repo, config: config})
	p.sequence = append(p.sequence, "added")
	return p.addedErr
}

func (p *mockPlugin) DistributorRemoved(ctx context.Context, repo plugin.RepositoryView, config *plugin.CallConfiguration) error {
	p.mu.Lock()
	p.removedCalls = append(p.removedCalls, hookCall{repo: repo, config: config})
	p.sequence = append(p.sequence, "removed")
	block, err := p.removedBlock, p.removedErr
	p.mu.Unlock()

	if block != nil {
		<-block
	}
	return err
}

func (p *mockPlugin) counts() (validate, added, removed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.validateCalls), len(p.addedCalls), len(p.removedCalls)
}

// calls returns the hook names in the order they were invoked.
func (p *mockPlugin) calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.sequence)
}

func (p *mockPlugin) lastAdded() hookCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addedCalls[len(p.addedCalls)-1]
}

func (p *mockPlugin) lastRemoved() hookCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removedCalls[len(p.removedCalls)-1]
}

// distributorFixture wires a DistributorServiceImpl to in-memory dependencies.
type distributorFixture struct {
	svc      *DistributorServiceImpl
	repos    *mockRepoRepository
	store    *mockDistributorRepository
	plugin   *mockPlugin
	registry *plugin.Registry
}

const mockTypeID = "mock-distributor"

func newDistributorFixture(repoIDs ...string) *distributorFixture {
	repos := newMockRepoRepository(repoIDs...)
	store := newMockDistributorRepository()
	p := newMockPlugin()
	registry := plugin.NewRegistry()
	if err := registry.Register(mockTypeID, p, nil); err != nil {
		panic(err)
	}
	return &distributorFixture{
		svc:      NewDistributorService(store, repos, registry, nil, 0),
		repos:    repos,
		store:    store,
		plugin:   p,
		registry: registry,
	}
}
