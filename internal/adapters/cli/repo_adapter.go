package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/example/depot/internal/ports/primary"
)

// RepoAdapter is a thin adapter that translates CLI operations to RepoService calls.
type RepoAdapter struct {
	service primary.RepoService
	out     io.Writer
}

// NewRepoAdapter creates a new RepoAdapter with the given service.
func NewRepoAdapter(service primary.RepoService, out io.Writer) *RepoAdapter {
	return &RepoAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a repository.
func (a *RepoAdapter) Create(ctx context.Context, req primary.CreateRepoRequest) (*primary.Repo, error) {
	repo, err := a.service.CreateRepo(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Repository %s created\n", repo.ID)
	return repo, nil
}

// List lists all repositories.
func (a *RepoAdapter) List(ctx context.Context) ([]*primary.Repo, error) {
	repos, err := a.service.ListRepos(ctx)
	if err != nil {
		return nil, err
	}

	if len(repos) == 0 {
		fmt.Fprintln(a.out, "No repositories found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first repository:")
		fmt.Fprintln(a.out, "  depot repo create my-repo --name \"My Repo\"")
		return repos, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED")
	fmt.Fprintln(w, "--\t----\t-------")
	for _, r := range repos {
		name := r.DisplayName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, name, r.CreatedAt)
	}
	w.Flush()
	return repos, nil
}

// Show displays details for a single repository.
func (a *RepoAdapter) Show(ctx context.Context, repoID string) (*primary.Repo, error) {
	repo, err := a.service.GetRepo(ctx, repoID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nRepository: %s\n", repo.ID)
	if repo.DisplayName != "" {
		fmt.Fprintf(a.out, "Name:        %s\n", repo.DisplayName)
	}
	if repo.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", repo.Description)
	}
	fmt.Fprintf(a.out, "Created:     %s\n", repo.CreatedAt)
	if len(repo.Notes) > 0 {
		fmt.Fprintln(a.out, "Notes:")
		for _, k := range slices.Sorted(maps.Keys(repo.Notes)) {
			fmt.Fprintf(a.out, "  %s: %s\n", k, repo.Notes[k])
		}
	}
	fmt.Fprintln(a.out)
	return repo, nil
}

// Update updates a repository's descriptive fields.
func (a *RepoAdapter) Update(ctx context.Context, req primary.UpdateRepoRequest) (*primary.Repo, error) {
	repo, err := a.service.UpdateRepo(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Repository %s updated\n", repo.ID)
	return repo, nil
}

// Delete deletes a repository along with its distributors.
func (a *RepoAdapter) Delete(ctx context.Context, repoID string) error {
	if err := a.service.DeleteRepo(ctx, repoID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Repository %s deleted\n", repoID)
	return nil
}
