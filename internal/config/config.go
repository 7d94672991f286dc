package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirName is the per-user state directory holding config, database and plugin conf.
const DirName = ".depot"

// HomeEnv overrides the base directory that contains DirName.
const HomeEnv = "DEPOT_HOME"

// Config represents the flat depot configuration
type Config struct {
	DBPath        string `json:"db_path"`         // relative paths resolve against the .depot dir
	PluginConfDir string `json:"plugin_conf_dir"` // <type>.yaml default configs
	HookTimeout   string `json:"hook_timeout"`    // duration string, "0" disables the bound
	LogLevel      string `json:"log_level"`
	LogFormat     string `json:"log_format"` // text or json
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DBPath:        "depot.db",
		PluginConfDir: "plugins",
		HookTimeout:   "30s",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// BaseDir returns the directory containing .depot: $DEPOT_HOME if set,
// otherwise the user's home directory.
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

// Load reads .depot/config.json from the specified directory.
// A missing file yields the defaults. Fields absent from the file keep their
// default values, and relative paths are resolved against the .depot dir.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, DirName, "config.json")
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if _, err := cfg.HookTimeoutDuration(); err != nil {
		return nil, err
	}

	base := filepath.Join(dir, DirName)
	cfg.DBPath = resolve(base, cfg.DBPath)
	cfg.PluginConfDir = resolve(base, cfg.PluginConfDir)
	return cfg, nil
}

// Save writes config.json to directory
func Save(dir string, cfg *Config) error {
	depotDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(depotDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(depotDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// HookTimeoutDuration parses HookTimeout. Empty means no bound.
func (c *Config) HookTimeoutDuration() (time.Duration, error) {
	if c.HookTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HookTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid hook_timeout %q: %w", c.HookTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid hook_timeout %q: must not be negative", c.HookTimeout)
	}
	return d, nil
}

func resolve(base, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
