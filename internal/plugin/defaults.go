package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads per-type default configuration from dir.
// Each file named <type-id>.yaml or <type-id>.yml holds a mapping of config keys.
// A missing directory yields an empty result.
func LoadDefaults(dir string) (map[string]map[string]any, error) {
	out := make(map[string]map[string]any)
	if dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin config dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read plugin config %s: %w", name, err)
		}

		var values map[string]any
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse plugin config %s: %w", name, err)
		}
		if values == nil {
			values = map[string]any{}
		}
		out[strings.TrimSuffix(name, ext)] = values
	}

	return out, nil
}
