// Package plugin defines the distributor plugin contract and the registry that
// maps distributor type IDs to loaded implementations.
//
// Plugins never touch persistence. They receive a read-only view of the
// repository and a merged call configuration, and report back through return
// values only.
package plugin

import "context"

// Distributor is the capability set every distributor plugin implements.
// Each hook is invoked at most once per manager call and is never retried.
// Hooks for the same distributor never run concurrently, including a hook
// that overran its timeout: the next call on that distributor waits for it.
type Distributor interface {
	// ValidateConfig reports whether config is acceptable for the repository.
	// Returning false or an error rejects the configuration.
	ValidateConfig(ctx context.Context, repo RepositoryView, config *CallConfiguration) (bool, error)

	// DistributorAdded is called after the distributor has been persisted.
	DistributorAdded(ctx context.Context, repo RepositoryView, config *CallConfiguration) error

	// DistributorRemoved is called before the distributor is deleted or replaced.
	// Failures are logged by the caller and otherwise ignored.
	DistributorRemoved(ctx context.Context, repo RepositoryView, config *CallConfiguration) error
}

// RepositoryView is the read-only snapshot of a repository handed to plugin hooks.
type RepositoryView struct {
	ID          string
	DisplayName string
	Description string
	Notes       map[string]string
}
