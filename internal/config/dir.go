// Package config resolves the nikki configuration directory and loads the
// layered yaml configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the nikki configuration directory.
//
// Resolution:
//   - $NIKKI_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/nikki if set (respects XDG on any platform)
//   - %AppData%/nikki on Windows
//   - ~/.config/nikki on macOS and Linux
func Dir() string {
	if dir := os.Getenv("NIKKI_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nikki")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "nikki")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nikki")
}

// GlobalFile returns the path of the global config file, or "" when no
// config directory can be resolved.
func GlobalFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
