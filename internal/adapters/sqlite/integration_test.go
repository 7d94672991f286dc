package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/depot/internal/adapters/sqlite"
	"github.com/example/depot/internal/app"
	"github.com/example/depot/internal/errs"
	"github.com/example/depot/internal/plugin"
	"github.com/example/depot/internal/plugin/builtin"
	"github.com/example/depot/internal/ports/primary"
	"github.com/example/depot/internal/ports/secondary"
)

// Integration tests run the services against the SQLite store and the
// shipped plugins.

func setupServices(t *testing.T) (primary.RepoService, primary.DistributorService) {
	t.Helper()
	db := setupTestDB(t)

	registry := plugin.NewRegistry()
	if err := builtin.RegisterAll(registry, nil); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}

	repoRepo := sqlite.NewRepoRepository(db)
	distributors := app.NewDistributorService(sqlite.NewDistributorRepository(db), repoRepo, registry, nil, time.Second)
	return app.NewRepoService(repoRepo, distributors, nil), distributors
}

func TestIntegration_DistributorLifecycle(t *testing.T) {
	ctx := context.Background()
	repos, dists := setupServices(t)

	if _, err := repos.CreateRepo(ctx, primary.CreateRepoRequest{RepoID: "zoo", DisplayName: "Zoo"}); err != nil {
		t.Fatalf("CreateRepo failed: %v", err)
	}

	d, err := dists.AddDistributor(ctx, primary.AddDistributorRequest{
		RepoID:        "zoo",
		TypeID:        builtin.HTTPTypeID,
		Config:        map[string]any{"relative_url": "pub/zoo", "http": true},
		AutoPublish:   true,
		DistributorID: "web",
	})
	if err != nil {
		t.Fatalf("AddDistributor failed: %v", err)
	}
	if d.Config["relative_url"] != "pub/zoo" {
		t.Errorf("Config = %v", d.Config)
	}
	if _, ok := d.Config["https"]; ok {
		t.Error("plugin defaults must not be persisted")
	}

	// Scratchpad survives JSON storage.
	dists.SetDistributorScratchpad(ctx, "zoo", "web", map[string]any{"published": []any{"a", "b"}})
	pad, _ := dists.GetDistributorScratchpad(ctx, "zoo", "web").(map[string]any)
	if published, _ := pad["published"].([]any); len(published) != 2 {
		t.Errorf("scratchpad = %v", pad)
	}

	// Rejected update keeps the stored config.
	_, err = dists.UpdateDistributorConfig(ctx, primary.UpdateDistributorRequest{
		RepoID: "zoo", DistributorID: "web",
		Config: map[string]any{"relative_url": "/absolute"},
	})
	if !errors.Is(err, errs.ErrInvalidConfiguration) {
		t.Fatalf("expected InvalidConfiguration, got %v", err)
	}
	got, err := dists.GetDistributor(ctx, "zoo", "web")
	if err != nil {
		t.Fatalf("GetDistributor failed: %v", err)
	}
	if got.Config["relative_url"] != "pub/zoo" {
		t.Errorf("config changed after rejected update: %v", got.Config)
	}

	// Publish bookkeeping.
	at := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
	if err := dists.RecordPublish(ctx, "zoo", "web", at); err != nil {
		t.Fatalf("RecordPublish failed: %v", err)
	}
	auto, err := dists.FindAutoPublish(ctx, "zoo")
	if err != nil {
		t.Fatalf("FindAutoPublish failed: %v", err)
	}
	if len(auto) != 1 || auto[0].LastPublish == nil || !auto[0].LastPublish.Equal(at) {
		t.Errorf("FindAutoPublish = %+v", auto)
	}

	// Replacing with another type resets plugin-owned state.
	replaced, err := dists.AddDistributor(ctx, primary.AddDistributorRequest{
		RepoID:        "zoo",
		TypeID:        builtin.ExportTypeID,
		Config:        map[string]any{"export_dir": "/srv/export"},
		DistributorID: "web",
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if replaced.TypeID != builtin.ExportTypeID || replaced.Scratchpad != nil || replaced.LastPublish != nil {
		t.Errorf("replaced distributor = %+v", replaced)
	}

	// Deleting the repo removes its distributors first.
	if err := repos.DeleteRepo(ctx, "zoo"); err != nil {
		t.Fatalf("DeleteRepo failed: %v", err)
	}
	if _, err := dists.GetDistributors(ctx, "zoo"); !errors.Is(err, errs.ErrMissingResource) {
		t.Errorf("expected MissingResource after delete, got %v", err)
	}
}

func TestIntegration_GeneratedIDs(t *testing.T) {
	ctx := context.Background()
	repos, dists := setupServices(t)

	if _, err := repos.CreateRepo(ctx, primary.CreateRepoRequest{RepoID: "zoo"}); err != nil {
		t.Fatalf("CreateRepo failed: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		d, err := dists.AddDistributor(ctx, primary.AddDistributorRequest{RepoID: "zoo", TypeID: builtin.HTTPTypeID})
		if err != nil {
			t.Fatalf("AddDistributor failed: %v", err)
		}
		if seen[d.ID] {
			t.Errorf("duplicate id %q", d.ID)
		}
		seen[d.ID] = true

		if _, err := dists.GetDistributor(ctx, "zoo", d.ID); err != nil {
			t.Errorf("generated id %q not resolvable: %v", d.ID, err)
		}
	}
}

func TestIntegration_RepoDeleteBlockedByDistributors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repoID := seedRepo(t, db, "zoo")

	store := sqlite.NewDistributorRepository(db)
	if err := store.Upsert(ctx, &secondary.DistributorRecord{RepoID: repoID, ID: "web", TypeID: "http"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// The foreign key keeps orphaned distributors out of the store.
	if err := sqlite.NewRepoRepository(db).Delete(ctx, repoID); err == nil {
		t.Error("expected foreign key violation deleting a repository with distributors")
	}
}
