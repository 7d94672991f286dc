// Package repo contains the pure business logic for repository operations.
// Guards are pure functions that evaluate preconditions without side effects.
package repo

import (
	"fmt"
	"strings"

	"github.com/example/depot/internal/core/distributor"
	"github.com/example/depot/internal/errs"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    errs.Kind
	Reason  string
	Value   string
}

// Error converts the guard result to a structured error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &errs.Error{Kind: r.Kind, Message: r.Reason, Value: r.Value}
}

// CreateRepoContext provides context for repository creation guards.
type CreateRepoContext struct {
	RepoID   string
	IDExists bool // true if a repo with this ID already exists
}

// CanCreateRepo evaluates whether a repository can be created.
// Rules:
// - ID must not be empty
// - ID must match the identifier grammar shared with distributors
// - ID must be unique
func CanCreateRepo(ctx CreateRepoContext) GuardResult {
	if strings.TrimSpace(ctx.RepoID) == "" {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidValue,
			Reason:  "repository id cannot be empty",
			Value:   ctx.RepoID,
		}
	}

	if !distributor.IsValidID(ctx.RepoID) {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidValue,
			Reason:  errs.InvalidValue("repository id", ctx.RepoID, distributor.GrammarHint).Message,
			Value:   ctx.RepoID,
		}
	}

	if ctx.IDExists {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidValue,
			Reason:  fmt.Sprintf("repository %q already exists", ctx.RepoID),
			Value:   ctx.RepoID,
		}
	}

	return GuardResult{Allowed: true}
}
