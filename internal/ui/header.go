package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/state"
)

// renderHeader renders the status line: server indicator, counters and the
// time of the last successful fetch.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("mcpdash", styles.Logo),
		m.renderServerIndicator(styles, bg),
	}

	snap := m.snapshot
	counts := dashboard.CountTasks(snap.Tasks)
	label := func(long, short string) string {
		return ternary(compact, short, long)
	}
	counter := func(name string, value int, style lipgloss.Style) string {
		return bg.Render(name, styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", value), style)
	}

	pendingStyle := styles.Text
	if counts.Pending > 0 {
		pendingStyle = styles.WarningText
	}
	parts = append(parts,
		counter(label("Pending:", "P:"), counts.Pending, pendingStyle),
		counter(label("Completed:", "C:"), counts.Completed, styles.SuccessText),
		counter(label("Notes:", "N:"), snap.Status.Stats.Notes, styles.Text),
		counter(label("Events:", "E:"), len(snap.Events), styles.Text),
	)

	if !snap.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render(label("Updated", "@"), styles.FaintText)+bg.Space()+
				bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	if snap.IsOffline() {
		if err := snap.Panel(state.PanelStatus).LastError; err != nil {
			parts = append(parts, bg.Render(truncate(err.Error(), ternaryInt(compact, 30, 60)), styles.DangerText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderServerIndicator shows Online when the backend reports running,
// Offline when it answers with any other status, and Error when the last
// status request failed.
func (m Model) renderServerIndicator(styles Styles, bg BgStyle) string {
	status := m.snapshot.Panel(state.PanelStatus)
	switch {
	case status.LastError != nil:
		return bg.Render("● Error", styles.DangerText)
	case !m.snapshot.HasStatus:
		target := "backend"
		if m.config != nil {
			target = m.config.APIURL
		}
		return bg.Render("Connecting to "+truncate(target, 40)+"...", styles.WarningText.Bold(true))
	case m.snapshot.Status.Running():
		return bg.Render("● Online", styles.SuccessText)
	default:
		return bg.Render("● Offline", styles.DangerText)
	}
}

// renderTabBar lists the panels with their number keys, highlighting the
// active one.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Bold(true)

	segments := make([]string, 0, len(state.Tabs))
	for i, tab := range state.Tabs {
		text := fmt.Sprintf(" %d %s ", i+1, tab.Title())
		if tab == m.tab {
			segments = append(segments, active.Render(text))
			continue
		}
		segments = append(segments, bg.Render(text, styles.MutedText))
	}
	return bg.FillLine(bg.Join(segments, " "), m.width)
}

// renderCommandBar renders the key hints for the active panel.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.tab {
	case state.TabTasks:
		commands = []cmd{
			{"f", m.tasks.filter.Label()},
			{"/", "Search"},
			{"j/k", "Select"},
			{"c", "Complete"},
			{"d", "Delete"},
			{"n", "New"},
		}
	case state.TabLogs:
		commands = []cmd{
			{"f", m.logs.filter.Label()},
			{"/", "Search"},
			{"x", "Clear"},
			{"j/k", "Scroll"},
		}
	case state.TabCalendar:
		commands = []cmd{{"n", "New event"}, {"j/k", "Scroll"}}
	case state.TabNotes:
		commands = []cmd{{"n", "New note"}, {"j/k", "Scroll"}}
	default:
		commands = []cmd{{"j/k", "Scroll"}}
	}
	commands = append(commands, cmd{"1-6", "Panels"}, cmd{"r", "Refresh"}, cmd{"?", "More"}, cmd{"q", "Quit"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if query := m.activeQuery(); query != "" {
		segments = append(segments, bg.Render("/"+truncate(query, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func (m Model) activeQuery() string {
	switch m.tab {
	case state.TabTasks:
		return m.tasks.search.Value()
	case state.TabLogs:
		return m.logs.search.Value()
	}
	return ""
}

func ternaryInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
