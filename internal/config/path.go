// Package config loads punchgrid settings from viper, the environment and
// the optional roster file.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir is where config.yaml and the OAuth token live.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "punchgrid")
	}
	return ExpandPath("~/.config/punchgrid")
}

// DefaultDatabasePath is the punch archive location when database.path is unset.
func DefaultDatabasePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "punchgrid", "punchgrid.db")
	}
	return ExpandPath("~/.local/share/punchgrid/punchgrid.db")
}
