package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNextTheme(t *testing.T) {
	cases := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range cases {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme_DefaultsToNightfox(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope).Name = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
}

func TestThemes_CoverEveryBadgeKey(t *testing.T) {
	keys := []string{"high", "medium", "low", "pending", "completed", "error", "warning", "success", "info", "active", "disconnected"}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, key := range keys {
			if theme.StatusColors[key] == "" {
				t.Fatalf("%s has no color for %q", name, key)
			}
		}
	}
}

func TestStyles_FgFallsBackToText(t *testing.T) {
	theme := GetTheme("Nightfox")
	styles := theme.Styles()

	if got, want := styles.Fg("missing").GetForeground(), lipgloss.Color(theme.Text); got != want {
		t.Fatalf("Fg(missing) foreground = %v, want %v", got, want)
	}
	if got, want := styles.Fg("error").GetForeground(), lipgloss.Color(theme.StatusColors["error"]); got != want {
		t.Fatalf("Fg(error) foreground = %v, want %v", got, want)
	}
}
