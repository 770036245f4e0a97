package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "TASKER_CONFIG"
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "tasker.toml"
	// AppDirName is the directory name under the XDG config and cache homes.
	AppDirName = "tasker"
)

// FindConfigPath searches for a config file in priority order:
//  1. $TASKER_CONFIG (explicit path)
//  2. ./tasker.toml (working directory)
//  3. $XDG_CONFIG_HOME/tasker/config.toml
//  4. ~/.config/tasker/config.toml
//
// Returns empty string if no config file is found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, AppDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", AppDirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// DefaultCacheDir returns the file cache directory using the XDG standard
// (~/.cache/tasker/). It falls back to a directory under os.TempDir when no
// home directory is known.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".cache", AppDirName)
}
