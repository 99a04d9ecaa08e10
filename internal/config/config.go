// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/conciliafacil/concilia/internal/model"
)

// Settings holds the user preferences the application persists between
// sessions. Cosmetic fields ride along with the active-plan selector so a
// single load/save collaborator owns all of them.
type Settings struct {
	ActivePlan model.AccountPlan
	Theme      string
	FontScale  int
}

// DefaultSettings returns the settings used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{
		ActivePlan: model.PlanReference,
		Theme:      "light",
		FontScale:  100,
	}
}

// Setting keys as stored by the persistence collaborator.
const (
	KeyActivePlan = "active_plan"
	KeyTheme      = "theme"
	KeyFontScale  = "font_scale"
)

// DefaultDataDir returns the directory holding the database and config file.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "concilia")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
