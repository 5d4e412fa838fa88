// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "mlplay", "config.toml")
}

// DefaultTokenPath returns the default path for persisted session tokens.
func DefaultTokenPath() string {
	return filepath.Join(XDGDataHome(), "mlplay", "tokens.json")
}

// DefaultHistoryDBPath returns the default path for the local run history database.
func DefaultHistoryDBPath() string {
	return filepath.Join(XDGDataHome(), "mlplay", "history.db")
}

// DefaultLogPath returns the default path for the debug log file.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "mlplay", "mlplay.log")
}

// DefaultDownloadDir returns the directory where model archives are saved.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
