package secondary

import "github.com/example/depot/internal/plugin"

// PluginRegistry defines the secondary port for resolving distributor plugins.
type PluginRegistry interface {
	// Resolve returns the registry entry for a distributor type.
	Resolve(typeID string) (plugin.Entry, bool)
}
