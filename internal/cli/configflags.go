package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseValue decodes a command-line value as JSON, falling back to the raw string.
// "true" becomes a bool, "3" a number, `{"a":1}` a map and "zoo" stays "zoo".
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// parseConfigPairs converts repeated key=value flags into a config map.
func parseConfigPairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid config %q: expected key=value", pair)
		}
		out[key] = parseValue(value)
	}
	return out, nil
}

// loadConfigFile reads a YAML or JSON mapping of config keys.
func loadConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return out, nil
}

// buildConfig merges a config file with key=value pairs; pairs win.
func buildConfig(file string, pairs []string) (map[string]any, error) {
	cfg := map[string]any{}
	if file != "" {
		fromFile, err := loadConfigFile(file)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			cfg[k] = v
		}
	}

	fromFlags, err := parseConfigPairs(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		cfg[k] = v
	}
	return cfg, nil
}

// parseNotes converts key=value flags into repository notes.
func parseNotes(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid note %q: expected key=value", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}
