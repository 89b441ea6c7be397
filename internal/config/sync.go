// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

// Package-level cached configuration for the CLI layer. Commands share one
// loaded Config per process; tests invalidate the cache via Reset.
var (
	cacheMu    sync.RWMutex
	cachedCfg  *Config
	cachedPath string
	cacheValid bool

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string
)

// SetConfigFilePathOverride sets a custom config file path and invalidates
// the cache so the next Load picks it up.
func SetConfigFilePathOverride(path string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	configFilePathOverride = path
	cacheValid = false
}

// Load returns the process-wide configuration, loading it on first use.
// Subsequent calls return the cached value until the cache is invalidated.
func Load() (*Config, error) {
	cacheMu.RLock()
	if cacheValid {
		cfg := cachedCfg
		cacheMu.RUnlock()
		return cfg, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	// Re-check: another goroutine may have loaded while we waited for the lock.
	if cacheValid {
		return cachedCfg, nil
	}

	cfg, resolvedPath, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
		ConfigDirPath:  configDirOverride,
	})
	if err != nil {
		return nil, err
	}

	cachedCfg = cfg
	cachedPath = resolvedPath
	cacheValid = true

	return cfg, nil
}

// LoadedConfigPath returns the path of the config file the cached Config was
// loaded from. Empty means defaults are in effect (no file found).
func LoadedConfigPath() string {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cachedPath
}

// InvalidateCache forces the next Load to re-read configuration from disk.
func InvalidateCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheValid = false
}
