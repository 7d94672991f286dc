package builtin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/example/depot/internal/plugin"
)

// HTTPDistributor publishes a repository under a relative URL served over
// HTTP and/or HTTPS.
type HTTPDistributor struct {
	logger *slog.Logger
}

// NewHTTPDistributor creates the http distributor plugin.
func NewHTTPDistributor(logger *slog.Logger) *HTTPDistributor {
	return &HTTPDistributor{logger: logger.With("distributor", HTTPTypeID)}
}

// HTTPDefaults returns the plugin-level defaults for the http distributor.
func HTTPDefaults() map[string]any {
	return map[string]any{
		"http":  false,
		"https": true,
	}
}

// ValidateConfig checks relative_url and the protocol flags.
func (d *HTTPDistributor) ValidateConfig(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) (bool, error) {
	if v, ok := cfg.Get("relative_url"); ok {
		rel, isString := v.(string)
		if !isString {
			return false, &configError{key: "relative_url", reason: "must be a string"}
		}
		if strings.HasPrefix(rel, "/") {
			return false, &configError{key: "relative_url", reason: "must not start with '/'"}
		}
		for _, part := range strings.Split(rel, "/") {
			if part == ".." {
				return false, &configError{key: "relative_url", reason: "must not contain '..'"}
			}
		}
	}

	for _, key := range []string{"http", "https"} {
		if err := optionalBool(cfg, key); err != nil {
			return false, err
		}
	}

	httpOn, _ := cfg.GetBool("http")
	httpsOn, _ := cfg.GetBool("https")
	if !httpOn && !httpsOn {
		return false, &configError{key: "http", reason: "at least one of http or https must be enabled"}
	}

	return true, nil
}

// RelativeURL returns the publish path, defaulting to the repository ID.
func (d *HTTPDistributor) RelativeURL(repo plugin.RepositoryView, cfg *plugin.CallConfiguration) string {
	if rel, ok := cfg.GetString("relative_url"); ok && rel != "" {
		return rel
	}
	return repo.ID
}

// DistributorAdded records the publish location.
func (d *HTTPDistributor) DistributorAdded(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) error {
	d.logger.Info("http distributor added", "repo", repo.ID, "relative_url", d.RelativeURL(repo, cfg))
	return nil
}

// DistributorRemoved records that the publish location is no longer served.
func (d *HTTPDistributor) DistributorRemoved(ctx context.Context, repo plugin.RepositoryView, cfg *plugin.CallConfiguration) error {
	d.logger.Info("http distributor removed", "repo", repo.ID, "relative_url", d.RelativeURL(repo, cfg))
	return nil
}

var _ plugin.Distributor = (*HTTPDistributor)(nil)
