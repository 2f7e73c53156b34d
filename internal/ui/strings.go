package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to the given display width, adding an ellipsis
// if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if lipgloss.Width(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= 3 {
		return string(runes[:min(limit, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// singleLine collapses newlines so multi-line descriptions fit in a row.
func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// titleCase converts an underscore-separated string to title case.
func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
