package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme is the persisted color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PrefsFile is the name of the preferences file inside the data dir.
const PrefsFile = "prefs.yaml"

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Prefs is the state kept between sessions.
type Prefs struct {
	Theme Theme `yaml:"theme"`
}

// LoadPrefs reads <dir>/prefs.yaml. A missing file or an unknown theme
// yields the light theme.
func LoadPrefs(dir string) (Prefs, error) {
	prefs := Prefs{Theme: Light}
	data, err := os.ReadFile(filepath.Join(dir, PrefsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, err
	}
	var raw Prefs
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return prefs, fmt.Errorf("parse prefs: %w", err)
	}
	if t, err := ParseTheme(string(raw.Theme)); err == nil {
		prefs.Theme = t
	}
	return prefs, nil
}

// SavePrefs writes prefs to <dir>/prefs.yaml, creating dir if needed.
func SavePrefs(dir string, prefs Prefs) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, PrefsFile), data, 0644)
}
