package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/state"
)

// scrollWindow returns the lines that fit in height starting at offset,
// clamping the offset so the last page stays full.
func scrollWindow(lines []string, offset, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	offset = min(max(offset, 0), len(lines)-height)
	return lines[offset : offset+height]
}

// renderDashboard renders the overview: counters, recent pending tasks and
// the next events.
func (m Model) renderDashboard(height int) string {
	styles := m.theme.Styles()
	counts := dashboard.CountTasks(m.snapshot.Tasks)

	statsBg := NewBgStyle(m.theme.SurfaceAlt)
	stat := func(name string, value int, style lipgloss.Style) string {
		return statsBg.Render(fmt.Sprintf("%d", value), style.Bold(true)) + statsBg.Space() + statsBg.Render(name, styles.MutedText)
	}
	stats := statsBg.Join([]string{
		stat("pending", counts.Pending, styles.WarningText),
		stat("completed", counts.Completed, styles.SuccessText),
		stat("total", counts.Total, styles.Text),
		stat("notes", m.snapshot.Status.Stats.Notes, styles.AccentText),
		stat("events", len(m.snapshot.Events), styles.InfoText),
	}, "   ")
	statsBox := m.renderTitledBox("Overview", statsBg.FillLine(" "+stats, m.width-2), m.width, 3, false)

	boxHeight := max(height-3, 4)
	if m.width < LayoutSplitWidth {
		taskHeight := boxHeight / 2
		return lipgloss.JoinVertical(lipgloss.Left,
			statsBox,
			m.renderRecentTasks(m.width, taskHeight),
			m.renderUpcomingEvents(m.width, boxHeight-taskHeight),
		)
	}

	leftWidth := m.width * 55 / 100
	return lipgloss.JoinVertical(lipgloss.Left,
		statsBox,
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderRecentTasks(leftWidth, boxHeight),
			m.renderUpcomingEvents(m.width-leftWidth, boxHeight),
		),
	)
}

func (m Model) renderRecentTasks(width, height int) string {
	bgColor := m.theme.SurfaceAlt
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := width - 2

	tasks := dashboard.RecentPending(m.snapshot.Tasks, dashboard.DashboardTaskLimit)
	if len(tasks) == 0 {
		return m.renderTitledBox("Recent Tasks", m.renderEmpty(bgColor, inner, "No active tasks"), width, height, false)
	}

	var lines []string
	for _, task := range tasks {
		icon := dashboard.PriorityIcon(task.Priority)
		lines = append(lines, bg.FillLine(
			bg.Space()+bg.Render(icon, styles.Text)+bg.Space()+
				bg.Render(truncate(singleLine(task.Title), inner-6), styles.Text.Bold(true)), inner))
		if desc := singleLine(task.Description); desc != "" {
			lines = append(lines, bg.FillLine(bg.Spaces(4)+
				bg.Render(truncate(dashboard.Truncate(desc, dashboard.DashboardDescLimit), inner-6), styles.MutedText), inner))
		}
	}
	return m.renderTitledBox("Recent Tasks", strings.Join(lines, "\n"), width, height, false)
}

func (m Model) renderUpcomingEvents(width, height int) string {
	bgColor := m.theme.SurfaceAlt
	inner := width - 2

	events := dashboard.Upcoming(m.snapshot.Events, dashboard.DashboardEventLimit)
	if len(events) == 0 {
		return m.renderTitledBox("Upcoming Events", m.renderEmpty(bgColor, inner, "No upcoming events"), width, height, false)
	}
	var lines []string
	for _, event := range events {
		lines = append(lines, m.renderEventLines(event, bgColor, inner)...)
	}
	return m.renderTitledBox("Upcoming Events", strings.Join(lines, "\n"), width, height, false)
}

func (m Model) renderEventLines(event api.Event, bgColor string, width int) []string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	lines := []string{
		bg.FillLine(bg.Space()+bg.Render("📅", styles.Text)+bg.Space()+
			bg.Render(truncate(singleLine(event.Title), width-6), styles.Text.Bold(true)), width),
	}
	if start := dashboard.FormatDateTime(event.ParsedStart()); start != "" {
		lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Render(start, styles.AccentText), width))
	}
	if desc := singleLine(event.Description); desc != "" {
		lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Render(truncate(desc, width-6), styles.MutedText), width))
	}
	return lines
}

// renderCalendar lists every event.
func (m Model) renderCalendar(height int) string {
	bgColor := m.theme.FocusBg
	inner := m.width - 2
	events := m.snapshot.Events
	title := fmt.Sprintf("Calendar (%d)", len(events))
	if len(events) == 0 {
		return m.renderTitledBox(title, m.renderEmpty(bgColor, inner, "No events scheduled"), m.width, height, true)
	}

	lines := scrollWindow(m.calendarLines(inner), m.scroll[state.TabCalendar], height-2)
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) calendarLines(width int) []string {
	var lines []string
	for i, event := range m.snapshot.Events {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderEventLines(event, m.theme.FocusBg, width)...)
	}
	return lines
}

// renderNotes lists notes with their content cut to the preview length and
// their tags.
func (m Model) renderNotes(height int) string {
	bgColor := m.theme.FocusBg
	inner := m.width - 2
	notes := m.snapshot.Notes
	title := fmt.Sprintf("Notes (%d)", len(notes))
	if len(notes) == 0 {
		return m.renderTitledBox(title, m.renderEmpty(bgColor, inner, "No notes found"), m.width, height, true)
	}

	lines := scrollWindow(m.noteLines(inner), m.scroll[state.TabNotes], height-2)
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) noteLines(inner int) []string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	wrap := lipgloss.NewStyle().Width(max(inner-4, 10))
	var lines []string
	for i, note := range m.snapshot.Notes {
		if i > 0 {
			lines = append(lines, "")
		}
		head := bg.Space() + bg.Render("📝", styles.Text) + bg.Space() +
			bg.Render(truncate(singleLine(note.Title), inner-24), styles.Text.Bold(true))
		if created := dashboard.FormatDate(note.ParsedCreatedAt()); created != "" {
			head += bg.Spaces(2) + bg.Render(created, styles.FaintText)
		}
		lines = append(lines, bg.FillLine(head, inner))

		preview := dashboard.Truncate(note.Content, dashboard.NoteContentLimit)
		for _, l := range strings.Split(wrap.Render(preview), "\n") {
			lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Render(strings.TrimRight(l, " "), styles.MutedText), inner))
		}

		if len(note.Tags) > 0 {
			tags := make([]string, 0, len(note.Tags))
			for _, tag := range note.Tags {
				tags = append(tags, bg.Render("#"+tag, styles.AccentText))
			}
			lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Join(tags, " "), inner))
		}
	}
	return lines
}

// renderConnections shows the aggregate counters and one card per client.
func (m Model) renderConnections(height int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	inner := m.width - 2
	conns := m.snapshot.Connections
	summary := dashboard.SummarizeConnections(conns)

	header := bg.FillLine(bg.Space()+bg.Join([]string{
		bg.Render("Active clients:", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", summary.Active), styles.SuccessText),
		bg.Render("Total requests:", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", summary.TotalRequests), styles.Text),
		bg.Render("Unique tools:", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", summary.UniqueTools), styles.AccentText),
	}, "   "), inner)

	title := fmt.Sprintf("Connections (%d)", len(conns.Clients))
	if len(conns.Clients) == 0 {
		content := header + "\n" + m.renderEmpty(bgColor, inner, "No clients connected", "Waiting for MCP client connections...")
		return m.renderTitledBox(title, content, m.width, height, true)
	}

	lines := scrollWindow(m.connectionLines(inner), m.scroll[state.TabConnections], height-3)
	return m.renderTitledBox(title, header+"\n"+strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) connectionLines(width int) []string {
	var lines []string
	for _, client := range m.snapshot.Connections.Clients {
		lines = append(lines, "")
		lines = append(lines, m.renderClientCard(client, width)...)
	}
	return lines
}

// maxScroll is the largest offset that still moves the window of a
// scrollable panel.
func (m Model) maxScroll(tab state.Tab) int {
	var (
		lines  []string
		chrome = 2
	)
	inner := m.width - 2
	switch tab {
	case state.TabCalendar:
		lines = m.calendarLines(inner)
	case state.TabNotes:
		lines = m.noteLines(inner)
	case state.TabConnections:
		lines = m.connectionLines(inner)
		chrome = 3
	default:
		return 0
	}
	return max(len(lines)-(m.panelHeight()-chrome), 0)
}

func (m Model) renderClientCard(client api.Connection, width int) []string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	statusKey := api.ConnectionDisconnected
	statusLabel := "Disconnected"
	if client.IsActive() {
		statusKey = api.ConnectionActive
		statusLabel = "Active"
	}
	name := client.ClientName
	if name == "" {
		name = client.ClientID
	}
	head := bg.Space() + bg.Render(dashboard.ClientIcon(client.ClientName), styles.Text) + bg.Space() +
		bg.Render(truncate(name, width-24), styles.Text.Bold(true)) + bg.Spaces(2) +
		styles.StatusStyle(statusKey).Render(statusLabel)

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return bg.Render(label, styles.FaintText) + bg.Space() + bg.Render(value, styles.MutedText)
	}
	meta := bg.Spaces(4) + bg.Join([]string{
		field("Connected:", dashboard.FormatDateTime(client.ParsedConnectedAt())),
		field("Last activity:", dashboard.FormatDateTime(client.ParsedLastActivity())),
		field("Requests:", fmt.Sprintf("%d", client.RequestsCount)),
	}, "  ")

	lines := []string{bg.FillLine(head, width), bg.FillLine(meta, width)}

	shown, hidden := dashboard.SplitTools(client.ToolsUsed, dashboard.ToolBadgeLimit)
	if len(shown) > 0 {
		badge := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Foreground(lipgloss.Color(m.theme.Info)).
			Padding(0, 1)
		badges := make([]string, 0, len(shown)+1)
		for _, tool := range shown {
			badges = append(badges, badge.Render(tool))
		}
		if hidden > 0 {
			badges = append(badges, badge.Foreground(lipgloss.Color(m.theme.Muted)).Render(fmt.Sprintf("+%d", hidden)))
		}
		lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Join(badges, " "), width))
	}
	return lines
}
