package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName     = "unicreate"
	configFileName = "unicreate.toml"
	historyDBName  = "history.db"
)

// ConfigPaths returns ordered list of config file paths to check.
// Paths are ordered from lowest to highest priority, so that when decoded
// sequentially, each subsequent file overrides values from previous files.
//
// Order (lowest to highest priority):
//  1. File in the user config directory (~/.config/unicreate/unicreate.toml)
//  2. File in the current working directory
//
// An empty cwd is skipped.
func ConfigPaths(cwd string) []string {
	var paths []string
	seen := make(map[string]bool)

	addPath := func(dir string) {
		if dir == "" {
			return
		}
		path := filepath.Join(dir, configFileName)
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	if dir, err := AppDir(); err == nil {
		addPath(dir)
	}
	addPath(cwd)

	return paths
}

// AppDir returns the per-user directory holding unicreate state.
func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// HistoryPath returns the configured history database path, falling back to AppDir.
func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyDBName), nil
}
