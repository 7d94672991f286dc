// Package distributor contains the pure business logic for distributor operations.
// Guards are pure functions that evaluate preconditions without side effects.
package distributor

import (
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

// AddDistributorContext provides context for distributor add guards.
type AddDistributorContext struct {
	RepoID         string
	RepoExists     bool
	TypeID         string
	TypeRegistered bool
	DistributorID  string // empty when the caller wants one generated
}

// UpdateDistributorContext provides context for distributor config update guards.
type UpdateDistributorContext struct {
	RepoID            string
	RepoExists        bool
	DistributorID     string
	DistributorExists bool
	TypeID            string
	TypeRegistered    bool
}

// CanAddDistributor evaluates whether a distributor can be added to a repository.
// Rules, in order:
// - Repository must exist
// - Distributor type must be registered
// - An explicit distributor ID must match the identifier grammar
func CanAddDistributor(ctx AddDistributorContext) GuardResult {
	if !ctx.RepoExists {
		return missing("repository", ctx.RepoID)
	}

	if !ctx.TypeRegistered {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidType,
			Reason:  errs.InvalidType(ctx.TypeID).Message,
			Value:   ctx.TypeID,
		}
	}

	if ctx.DistributorID != "" && !IsValidID(ctx.DistributorID) {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidValue,
			Reason:  errs.InvalidValue("distributor id", ctx.DistributorID, GrammarHint).Message,
			Value:   ctx.DistributorID,
		}
	}

	return GuardResult{Allowed: true}
}

// CanUpdateDistributor evaluates whether a distributor's config can be updated.
// Rules, in order:
// - Repository must exist
// - Distributor must exist on the repository
// - Distributor type must still be registered
func CanUpdateDistributor(ctx UpdateDistributorContext) GuardResult {
	if !ctx.RepoExists {
		return missing("repository", ctx.RepoID)
	}

	if !ctx.DistributorExists {
		return missing("distributor", ctx.DistributorID)
	}

	if !ctx.TypeRegistered {
		return GuardResult{
			Allowed: false,
			Kind:    errs.KindInvalidType,
			Reason:  errs.InvalidType(ctx.TypeID).Message,
			Value:   ctx.TypeID,
		}
	}

	return GuardResult{Allowed: true}
}

func missing(resource, id string) GuardResult {
	return GuardResult{
		Allowed: false,
		Kind:    errs.KindMissingResource,
		Reason:  errs.MissingResource(resource, id).Message,
		Value:   id,
	}
}
