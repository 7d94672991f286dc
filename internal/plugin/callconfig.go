package plugin

import "maps"

// CallConfiguration is the merged configuration passed into a plugin hook.
// Lookups resolve the per-call override first, then the repository-level
// config supplied by the caller, then the plugin defaults.
type CallConfiguration struct {
	pluginConfig map[string]any
	repoConfig   map[string]any
	override     map[string]any
}

// NewCallConfiguration builds a call configuration from its layers.
// Any layer may be nil. The maps are copied so hooks cannot mutate stored state.
func NewCallConfiguration(pluginConfig, repoConfig, override map[string]any) *CallConfiguration {
	return &CallConfiguration{
		pluginConfig: cloneMap(pluginConfig),
		repoConfig:   cloneMap(repoConfig),
		override:     cloneMap(override),
	}
}

// Get returns the value for key from the highest-priority layer that has it.
func (c *CallConfiguration) Get(key string) (any, bool) {
	for _, layer := range []map[string]any{c.override, c.repoConfig, c.pluginConfig} {
		if v, ok := layer[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetString returns the value for key if it is a string.
func (c *CallConfiguration) GetString(key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool returns the value for key if it is a bool.
func (c *CallConfiguration) GetBool(key string) (bool, bool) {
	v, ok := c.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// PluginConfig returns a copy of the plugin default layer.
func (c *CallConfiguration) PluginConfig() map[string]any {
	return cloneMap(c.pluginConfig)
}

// RepoConfig returns a copy of the caller-supplied repository-level config, verbatim.
func (c *CallConfiguration) RepoConfig() map[string]any {
	return cloneMap(c.repoConfig)
}

// Flatten returns every key with its effective value.
func (c *CallConfiguration) Flatten() map[string]any {
	out := make(map[string]any, len(c.pluginConfig)+len(c.repoConfig)+len(c.override))
	maps.Copy(out, c.pluginConfig)
	maps.Copy(out, c.repoConfig)
	maps.Copy(out, c.override)
	return out
}

// cloneMap returns a shallow copy; nil stays nil.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
