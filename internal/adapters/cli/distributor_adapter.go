package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/depot/internal/ports/primary"
)

// TypeLister lists the registered distributor type IDs.
type TypeLister interface {
	Types() []string
}

// DistributorAdapter is a thin adapter that translates CLI operations to DistributorService calls.
// It depends only on the DistributorService interface, enabling easy testing with mocks.
type DistributorAdapter struct {
	service primary.DistributorService
	types   TypeLister
	out     io.Writer
}

// NewDistributorAdapter creates a new DistributorAdapter with the given service.
func NewDistributorAdapter(service primary.DistributorService, types TypeLister, out io.Writer) *DistributorAdapter {
	return &DistributorAdapter{
		service: service,
		types:   types,
		out:     out,
	}
}

// Add adds (or replaces) a distributor on a repository.
func (a *DistributorAdapter) Add(ctx context.Context, req primary.AddDistributorRequest) (*primary.Distributor, error) {
	d, err := a.service.AddDistributor(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Distributor %s added to %s\n", d.ID, d.RepoID)
	fmt.Fprintf(a.out, "  Type: %s\n", d.TypeID)
	fmt.Fprintf(a.out, "  Auto publish: %s\n", autoPublishLabel(d.AutoPublish))
	return d, nil
}

// List lists the distributors on a repository.
func (a *DistributorAdapter) List(ctx context.Context, repoID string) ([]*primary.Distributor, error) {
	dists, err := a.service.GetDistributors(ctx, repoID)
	if err != nil {
		return nil, err
	}

	if len(dists) == 0 {
		fmt.Fprintf(a.out, "No distributors on %s.\n", repoID)
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Add one:")
		fmt.Fprintf(a.out, "  depot distributor add %s --type http --config relative_url=%s\n", repoID, repoID)
		return dists, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAUTO\tLAST PUBLISH")
	fmt.Fprintln(w, "--\t----\t----\t------------")

	for _, d := range dists {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.ID,
			d.TypeID,
			autoPublishLabel(d.AutoPublish),
			lastPublishLabel(d.LastPublish),
		)
	}

	w.Flush()
	return dists, nil
}

// Show displays details for a single distributor.
func (a *DistributorAdapter) Show(ctx context.Context, repoID, distributorID string) (*primary.Distributor, error) {
	d, err := a.service.GetDistributor(ctx, repoID, distributorID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nDistributor: %s\n", d.ID)
	fmt.Fprintf(a.out, "Repository:   %s\n", d.RepoID)
	fmt.Fprintf(a.out, "Type:         %s\n", d.TypeID)
	fmt.Fprintf(a.out, "Auto publish: %s\n", autoPublishLabel(d.AutoPublish))
	fmt.Fprintf(a.out, "Last publish: %s\n", lastPublishLabel(d.LastPublish))
	fmt.Fprintf(a.out, "Created:      %s\n", d.CreatedAt)
	if len(d.Config) > 0 {
		fmt.Fprintln(a.out, "Config:")
		for _, k := range slices.Sorted(maps.Keys(d.Config)) {
			fmt.Fprintf(a.out, "  %s: %s\n", k, jsonValue(d.Config[k]))
		}
	}
	if d.Scratchpad != nil {
		fmt.Fprintf(a.out, "Scratchpad:   %s\n", jsonValue(d.Scratchpad))
	}
	fmt.Fprintln(a.out)

	return d, nil
}

// Update replaces a distributor's configuration.
func (a *DistributorAdapter) Update(ctx context.Context, req primary.UpdateDistributorRequest) (*primary.Distributor, error) {
	d, err := a.service.UpdateDistributorConfig(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Distributor %s updated\n", d.ID)
	return d, nil
}

// Remove removes a distributor. Removing an unknown distributor succeeds.
func (a *DistributorAdapter) Remove(ctx context.Context, repoID, distributorID string) error {
	if err := a.service.RemoveDistributor(ctx, repoID, distributorID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Distributor %s removed from %s\n", distributorID, repoID)
	return nil
}

// Types lists the registered distributor types.
func (a *DistributorAdapter) Types() []string {
	types := a.types.Types()
	if len(types) == 0 {
		fmt.Fprintln(a.out, "No distributor types registered.")
		return types
	}
	for _, t := range types {
		fmt.Fprintln(a.out, t)
	}
	return types
}

// ScratchpadGet prints a distributor's scratchpad as JSON, or null when absent.
func (a *DistributorAdapter) ScratchpadGet(ctx context.Context, repoID, distributorID string) any {
	v := a.service.GetDistributorScratchpad(ctx, repoID, distributorID)
	fmt.Fprintln(a.out, jsonValue(v))
	return v
}

// ScratchpadSet stores a distributor's scratchpad.
func (a *DistributorAdapter) ScratchpadSet(ctx context.Context, repoID, distributorID string, value any) {
	a.service.SetDistributorScratchpad(ctx, repoID, distributorID, value)
	fmt.Fprintf(a.out, "✓ Scratchpad stored for %s\n", distributorID)
}

func autoPublishLabel(auto bool) string {
	if auto {
		return color.New(color.FgGreen).Sprint("yes")
	}
	return color.New(color.FgYellow).Sprint("no")
}

func lastPublishLabel(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
