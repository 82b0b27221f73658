package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under per-user config locations
const AppName = "htmldesk"

// SettingsFile is the settings file name inside the settings directory
const SettingsFile = "settings.json"

// HTMLExt is the only extension managed inside a workspace
const HTMLExt = ".html"

// SettingsDir returns the per-user directory holding the settings file.
// An explicit override wins over the platform default.
func SettingsDir(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// SettingsPath returns the full path of the settings file
func SettingsPath(override string) (string, error) {
	dir, err := SettingsDir(override)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFile), nil
}

// TrashHome returns the user's home trash location for the current platform.
//
// Linux and the BSDs follow the FreeDesktop.org trash specification
// ($XDG_DATA_HOME/Trash). macOS uses ~/.Trash. Windows has no directory form
// and returns an empty string.
func TrashHome() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return "", nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".Trash"), nil
	default:
		if data := os.Getenv("XDG_DATA_HOME"); data != "" && filepath.IsAbs(data) {
			return filepath.Join(data, "Trash"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", "Trash"), nil
	}
}
