package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpWidth = 60

// helpTitles names the groups returned by keyMap.FullHelp, in order.
var helpTitles = []string{"Panels", "Navigation", "Filter and search", "Tasks, notes and events", "General"}

// renderHelp renders the key reference overlay from the key map. Any key
// closes it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	line := func(k, desc string) string {
		return keyStyle.Render(k) + styles.Text.Render(desc) + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", helpWidth-6)))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n")
		if i < len(helpTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpTitles[i]))
			b.WriteString("\n")
		}
		if i == 0 {
			// The number keys read better as one row.
			b.WriteString(line("1-6", joinHelpDescs(group, "/")))
			continue
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(line(h.Key, h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("press any key to close"))

	return placeBox(m.theme, m.width, m.height, helpWidth, b.String())
}

func joinHelpDescs(bindings []key.Binding, sep string) string {
	descs := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		descs = append(descs, binding.Help().Desc)
	}
	return strings.Join(descs, sep)
}
