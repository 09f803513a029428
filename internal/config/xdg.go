// Package config provides XDG path helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// NoConfig disables the command config file.
const NoConfig = "NONE"

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

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "fltrdr", "history.db")
}

// DefaultSettingsPath returns the default TOML settings path.
func DefaultSettingsPath() string {
	return filepath.Join(XDGConfigHome(), "fltrdr", "settings.toml")
}

// DefaultCommandConfigPath returns the preferred command config path.
func DefaultCommandConfigPath() string {
	return filepath.Join(XDGConfigHome(), "fltrdr", "config")
}

// CommandConfigCandidates lists the command config locations in lookup order.
func CommandConfigCandidates() []string {
	paths := []string{DefaultCommandConfigPath()}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		fallback := filepath.Join(home, ".config", "fltrdr", "config")
		if fallback != paths[0] {
			paths = append(paths, fallback)
		}
		paths = append(paths, filepath.Join(home, ".fltrdr", "config"))
	}
	return paths
}

// ResolveCommandConfig picks the command config file to apply. An explicit
// path that does not exist is reported through problem and the default
// locations are searched instead. NoConfig disables the file entirely. An
// empty result means there is nothing to apply.
func ResolveCommandConfig(explicit string) (path string, problem string) {
	if explicit == NoConfig {
		return "", ""
	}
	if explicit != "" {
		if fileExists(explicit) {
			return explicit, ""
		}
		problem = fmt.Sprintf("error: could not open config file '%s'", explicit)
	}
	for _, candidate := range CommandConfigCandidates() {
		if fileExists(candidate) {
			return candidate, problem
		}
	}
	return "", problem
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
