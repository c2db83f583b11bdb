package config

import (
	"os"
	"path/filepath"
)

// DefaultCacheDir returns the cache directory using the XDG convention
// (~/.cache/blueprint/). It returns "" when no home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
