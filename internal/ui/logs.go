package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/state"
)

// visibleLogs applies the filter, then the live search term.
func (m Model) visibleLogs() []string {
	return dashboard.VisibleLogs(m.snapshot.Logs, m.logs.filter, m.logs.search.Value())
}

// handleLogsKey processes keyboard input for the logs panel.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		m.logs.filter = m.logs.filter.Next()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logs.searching = true
		cmd := m.logs.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.logs.filter = dashboard.LogFilterAll
		m.clearLogSearch()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.clearLogSearch()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	}
	return m, nil
}

// handleLogSearchInput narrows the log view on every keystroke.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.logs.searching = false
		m.logs.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.clearLogSearch()
		m.updateLogViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.search, cmd = m.logs.search.Update(msg)
	m.updateLogViewport()
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logs.searching = false
	m.logs.search.Blur()
	m.logs.search.SetValue("")
}

// updateLogViewport re-renders the visible lines and jumps to the newest.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.renderLogViewport()
	m.logViewport.GotoBottom()
}

// refreshLogViewport re-renders the visible lines but keeps the reader's
// scroll position unless they were already following the newest line.
func (m *Model) refreshLogViewport() {
	if !m.ready {
		return
	}
	if m.logViewport.AtBottom() {
		m.updateLogViewport()
		return
	}
	offset := m.logViewport.YOffset
	m.renderLogViewport()
	m.logViewport.SetYOffset(offset)
}

func (m *Model) renderLogViewport() {
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.contentHeight()-4, 1)

	lines := m.visibleLogs()
	if len(lines) == 0 {
		m.logViewport.SetContent(m.renderEmpty(m.theme.FocusBg, m.logViewport.Width, "No logs found"))
		return
	}
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, m.renderLogLine(line, m.logViewport.Width))
	}
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
}

func (m Model) renderLogLine(line string, width int) string {
	class := dashboard.ClassifyLog(line)
	style := m.theme.Styles().Fg(class.String())
	if class == dashboard.LogClassInfo {
		style = m.theme.Styles().Text
	}
	return NewBgStyle(m.theme.FocusBg).FillLine(style.Background(lipgloss.Color(m.theme.FocusBg)).Render(truncate(line, width)), width)
}

// renderLogs renders the filter bar above the log viewport.
func (m Model) renderLogs(height int) string {
	innerWidth := m.width - 2
	vp := m.logViewport
	if h := max(height-4, 1); vp.Height != h {
		following := vp.AtBottom()
		vp.Height = h
		if following {
			vp.GotoBottom()
		}
	}

	content := strings.Join([]string{
		m.renderLogFilterBar(innerWidth),
		vp.View(),
	}, "\n")

	source := "api"
	if m.config != nil && m.config.LogFile != "" {
		source = truncate(m.config.LogFile, 40)
	}
	title := fmt.Sprintf("Logs (%d/%d) · %s", len(m.visibleLogs()), len(m.snapshot.Logs), source)
	return m.renderTitledBox(title, content, m.width, height, true)
}

func (m Model) renderLogFilterBar(width int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Accent)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true)

	segments := []string{bg.Render("Filter:", styles.MutedText)}
	for _, f := range []dashboard.LogFilter{dashboard.LogFilterAll, dashboard.LogFilterError, dashboard.LogFilterWarning, dashboard.LogFilterSuccess, dashboard.LogFilterInfo} {
		if f == m.logs.filter {
			segments = append(segments, active.Render(" "+f.Label()+" "))
			continue
		}
		segments = append(segments, bg.Render(" "+f.Label()+" ", styles.MutedText))
	}
	bar := bg.Join(segments, " ")
	if m.logs.searching || m.logs.search.Value() != "" {
		bar += bg.Spaces(3) + m.logs.search.View()
	}
	if ps := m.snapshot.Panel(state.PanelLogs); ps.LastError != nil {
		bar += bg.Spaces(3) + bg.Render("stale", styles.WarningText)
	}
	return bg.FillLine(bar, width)
}
