// Package builtin provides the distributor plugins shipped with depot.
package builtin

import (
	"fmt"
	"log/slog"

	"github.com/example/depot/internal/logging"
	"github.com/example/depot/internal/plugin"
)

// Type IDs of the shipped distributors.
const (
	HTTPTypeID   = "http"
	ExportTypeID = "export"
)

// RegisterAll registers every shipped distributor with r.
func RegisterAll(r *plugin.Registry, logger *slog.Logger) error {
	logger = logging.Default(logger)

	if err := r.Register(HTTPTypeID, NewHTTPDistributor(logger), HTTPDefaults()); err != nil {
		return fmt.Errorf("failed to register %s distributor: %w", HTTPTypeID, err)
	}
	if err := r.Register(ExportTypeID, NewExportDistributor(logger), ExportDefaults()); err != nil {
		return fmt.Errorf("failed to register %s distributor: %w", ExportTypeID, err)
	}
	return nil
}

// configError is returned by validators so the manager can attach a reason.
type configError struct {
	key    string
	reason string
}

func (e *configError) Error() string {
	return fmt.Sprintf("%s: %s", e.key, e.reason)
}

// optionalBool checks that key, if present, holds a bool.
func optionalBool(cfg *plugin.CallConfiguration, key string) error {
	v, ok := cfg.Get(key)
	if !ok {
		return nil
	}
	if _, isBool := v.(bool); !isBool {
		return &configError{key: key, reason: fmt.Sprintf("must be a boolean, got %T", v)}
	}
	return nil
}
