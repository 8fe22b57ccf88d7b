// Package config loads notehub's optional configuration file. All of it
// is optional: a missing file simply means defaults everywhere.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	// EnvConfig points at an alternative config file.
	EnvConfig = "NOTEHUB_CONFIG"
	// EnvCacheRoot overrides the cache location, file or not.
	EnvCacheRoot = "NOTEHUB_CACHE_ROOT"
)

// Config is the on-disk configuration.
type Config struct {
	// CacheRoot holds the note cache; defaults to ~/.notehub.
	CacheRoot string `yaml:"cache_root"`
	// Editor overrides $EDITOR for note editing.
	Editor string `yaml:"editor"`
	// Host is a fallback host consulted during context resolution.
	Host string `yaml:"host"`
}

// Path returns the config file location: $NOTEHUB_CONFIG when set,
// otherwise notehub/config.yaml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "notehub", "config.yaml"), nil
}

// Load reads the configuration. A missing file yields the zero Config;
// an unreadable or malformed file is an error, silent fallback would
// hide typos.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ResolveCacheRoot picks the cache root: $NOTEHUB_CACHE_ROOT, then the
// config file, then ~/.notehub.
func (c Config) ResolveCacheRoot() (string, error) {
	if v := os.Getenv(EnvCacheRoot); v != "" {
		return v, nil
	}
	if c.CacheRoot != "" {
		return c.CacheRoot, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".notehub"), nil
}
