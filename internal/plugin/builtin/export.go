package builtin

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/example/depot/internal/plugin"
)

// ExportDistributor publishes a repository into a directory on local disk.
type ExportDistributor struct {
	logger *slog.Logger
}

// NewExportDistributor creates the export distributor plugin.
func NewExportDistributor(logger *slog.Logger) *ExportDistributor {
	return &ExportDistributor{logger: logger.With("distributor", ExportTypeID)}
}

// ExportDefaults returns the plugin-level defaults for the export distributor.
func ExportDefaults() map[string]any {
	return map[string]any{
		"compress": false,
	}
}

// ValidateConfig requires an absolute export_dir.
func (d *ExportDistributor) ValidateConfig(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) (bool, error) {
	v, ok := cfg.Get("export_dir")
	if !ok {
		return false, &configError{key: "export_dir", reason: "is required"}
	}
	dir, isString := v.(string)
	if !isString || dir == "" {
		return false, &configError{key: "export_dir", reason: "must be a non-empty string"}
	}
	if !filepath.IsAbs(dir) {
		return false, &configError{key: "export_dir", reason: "must be an absolute path"}
	}

	if err := optionalBool(cfg, "compress"); err != nil {
		return false, err
	}
	return true, nil
}

// DistributorAdded logs the export target.
func (d *ExportDistributor) DistributorAdded(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) error {
	dir, _ := cfg.GetString("export_dir")
	d.logger.Info("export distributor added", "repo", repo.ID, "export_dir", dir)
	return nil
}

// DistributorRemoved logs the export target. Exported content is left in place.
func (d *ExportDistributor) DistributorRemoved(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) error {
	dir, _ := cfg.GetString("export_dir")
	d.logger.Info("export distributor removed", "repo", repo.ID, "export_dir", dir)
	return nil
}

var _ plugin.Distributor = (*ExportDistributor)(nil)
