package plugin

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Entry is a registered distributor type.
type Entry struct {
	TypeID   string
	Plugin   Distributor
	Defaults map[string]any
}

// Registry maps distributor type IDs to plugin implementations.
// Types are registered at startup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a distributor type. Duplicate or empty type IDs are rejected.
func (r *Registry) Register(typeID string, p Distributor, defaults map[string]any) error {
	if strings.TrimSpace(typeID) == "" {
		return fmt.Errorf("distributor type id cannot be empty")
	}
	if p == nil {
		return fmt.Errorf("distributor type %q has no implementation", typeID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[typeID]; exists {
		return fmt.Errorf("distributor type %q already registered", typeID)
	}
	r.entries[typeID] = Entry{
		TypeID:   typeID,
		Plugin:   p,
		Defaults: cloneMap(defaults),
	}
	return nil
}

// Resolve returns the entry for typeID. The returned defaults are a copy.
func (r *Registry) Resolve(typeID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[typeID]
	if !ok {
		return Entry{}, false
	}
	e.Defaults = cloneMap(e.Defaults)
	return e, true
}

// Types returns the registered type IDs in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// ApplyDefaults overlays per-type defaults onto registered entries.
// Keys in defaults replace the registered values; unknown types are returned
// so callers can warn about stray configuration files.
func (r *Registry) ApplyDefaults(defaults map[string]map[string]any) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var unknown []string
	for typeID, overlay := range defaults {
		e, ok := r.entries[typeID]
		if !ok {
			unknown = append(unknown, typeID)
			continue
		}
		merged := cloneMap(e.Defaults)
		if merged == nil {
			merged = make(map[string]any, len(overlay))
		}
		maps.Copy(merged, overlay)
		e.Defaults = merged
		r.entries[typeID] = e
	}
	slices.Sort(unknown)
	return unknown
}
