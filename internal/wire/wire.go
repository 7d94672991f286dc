// Package wire provides dependency injection for the depot application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	cliadapter "github.com/example/depot/internal/adapters/cli"
	"github.com/example/depot/internal/adapters/sqlite"
	"github.com/example/depot/internal/app"
	"github.com/example/depot/internal/config"
	"github.com/example/depot/internal/db"
	"github.com/example/depot/internal/logging"
	"github.com/example/depot/internal/plugin"
	"github.com/example/depot/internal/plugin/builtin"
	"github.com/example/depot/internal/ports/primary"
)

var (
	distributorService primary.DistributorService
	repoService        primary.RepoService
	registry           *plugin.Registry
	database           *sql.DB
	once               sync.Once
)

// DistributorService returns the singleton DistributorService instance.
func DistributorService() primary.DistributorService {
	once.Do(initServices)
	return distributorService
}

// RepoService returns the singleton RepoService instance.
func RepoService() primary.RepoService {
	once.Do(initServices)
	return repoService
}

// Registry returns the singleton plugin registry.
func Registry() *plugin.Registry {
	once.Do(initServices)
	return registry
}

// Close releases the database handle if services were initialized.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	base, err := config.BaseDir()
	if err != nil {
		log.Fatalf("failed to resolve base directory: %v", err)
	}
	cfg, err := config.Load(base)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	hookTimeout, err := cfg.HookTimeoutDuration()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	database, err = db.Open(cfg.DBPath, logger)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	registry, err = buildRegistry(cfg.PluginConfDir, logger)
	if err != nil {
		log.Fatalf("failed to load distributor plugins: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	repoRepo := sqlite.NewRepoRepository(database)
	distributorRepo := sqlite.NewDistributorRepository(database)

	// Create services (primary ports implementation)
	distributorService = app.NewDistributorService(distributorRepo, repoRepo, registry, logger, hookTimeout)
	repoService = app.NewRepoService(repoRepo, distributorService, logger)
}

// buildRegistry registers the shipped plugins and overlays per-type defaults
// found in confDir.
func buildRegistry(confDir string, logger *slog.Logger) (*plugin.Registry, error) {
	logger = logging.Default(logger)
	r := plugin.NewRegistry()
	if err := builtin.RegisterAll(r, logger); err != nil {
		return nil, err
	}

	defaults, err := plugin.LoadDefaults(confDir)
	if err != nil {
		return nil, err
	}
	for _, typeID := range r.ApplyDefaults(defaults) {
		logger.Warn("ignoring defaults for unknown distributor type", "type", typeID, "dir", confDir)
	}
	return r, nil
}

// DistributorAdapter returns a new DistributorAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func DistributorAdapter() *cliadapter.DistributorAdapter {
	return DistributorAdapterWithOutput(os.Stdout)
}

// DistributorAdapterWithOutput returns a new DistributorAdapter writing to the given output.
func DistributorAdapterWithOutput(out io.Writer) *cliadapter.DistributorAdapter {
	once.Do(initServices)
	return cliadapter.NewDistributorAdapter(distributorService, registry, out)
}

// RepoAdapter returns a new RepoAdapter writing to stdout.
func RepoAdapter() *cliadapter.RepoAdapter {
	return RepoAdapterWithOutput(os.Stdout)
}

// RepoAdapterWithOutput returns a new RepoAdapter writing to the given output.
func RepoAdapterWithOutput(out io.Writer) *cliadapter.RepoAdapter {
	once.Do(initServices)
	return cliadapter.NewRepoAdapter(repoService, out)
}
