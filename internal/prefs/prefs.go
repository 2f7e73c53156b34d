// Package prefs persists mcpdash user preferences in
// ~/.config/mcpdash/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds what mcpdash remembers between runs.
type Prefs struct {
	Theme string `toml:"theme"`
	// Tab is the panel that was active when mcpdash last exited.
	Tab string `toml:"tab,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/mcpdash/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, or the default location when path is
// empty. Preferences are cosmetic, so a missing, unreadable or corrupt file
// yields defaults instead of an error.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Default(), nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalized(), nil
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Tab = strings.ToLower(strings.TrimSpace(p.Tab))
	return p
}

// Save writes preferences to path, creating parent directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// resolve expands a leading ~ and makes path absolute.
func resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
