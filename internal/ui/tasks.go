package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/dashboard"
)

// Each task takes a title row and a detail row.
const taskRowHeight = 2

// visibleTasks applies the filter, then the live search term.
func (m Model) visibleTasks() []api.Task {
	return dashboard.VisibleTasks(m.snapshot.Tasks, m.tasks.filter, m.tasks.search.Value())
}

func (m Model) selectedTask() (api.Task, bool) {
	tasks := m.visibleTasks()
	if m.tasks.selected < 0 || m.tasks.selected >= len(tasks) {
		return api.Task{}, false
	}
	return tasks[m.tasks.selected], true
}

func (m *Model) clampTaskSelection() {
	n := len(m.visibleTasks())
	if m.tasks.selected >= n {
		m.tasks.selected = n - 1
	}
	if m.tasks.selected < 0 {
		m.tasks.selected = 0
	}
}

// handleTasksKey processes keyboard input for the tasks panel.
func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		m.tasks.filter = m.tasks.filter.Next()
		m.tasks.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.tasks.searching = true
		cmd := m.tasks.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		m.clearTaskSearch()
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.openTaskForm()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		task, ok := m.selectedTask()
		if !ok || task.Completed {
			return m, nil
		}
		cmd := m.completeTaskCmd(task.ID)
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			m.confirmDelete(task)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.tasks.selected++
	case key.Matches(msg, m.keys.Up):
		m.tasks.selected--
	case key.Matches(msg, m.keys.Top):
		m.tasks.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.tasks.selected = len(m.visibleTasks()) - 1
	}
	m.clampTaskSelection()
	return m, nil
}

// handleTaskSearchInput narrows the list on every keystroke. Enter keeps
// the term and leaves the input, esc clears it.
func (m Model) handleTaskSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.tasks.searching = false
		m.tasks.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.clearTaskSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.tasks.search, cmd = m.tasks.search.Update(msg)
	m.tasks.selected = 0
	return m, cmd
}

func (m *Model) clearTaskSearch() {
	m.tasks.searching = false
	m.tasks.search.Blur()
	m.tasks.search.SetValue("")
	m.clampTaskSelection()
}

// renderTasks renders the filter bar and the task list.
func (m Model) renderTasks(height int) string {
	bgColor := m.theme.FocusBg
	innerWidth := m.width - 2
	tasks := m.visibleTasks()

	var lines []string
	lines = append(lines, m.renderTaskFilterBar(innerWidth, bgColor), "")

	if len(tasks) == 0 {
		lines = append(lines, m.renderEmpty(bgColor, innerWidth, "No tasks found", "Create a new task to get started"))
	} else {
		listHeight := max(height-2-len(lines), taskRowHeight)
		perPage := max(listHeight/taskRowHeight, 1)
		start := 0
		if m.tasks.selected >= perPage {
			start = m.tasks.selected - perPage + 1
		}
		end := min(start+perPage, len(tasks))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderTaskRows(tasks[i], innerWidth, i == m.tasks.selected)...)
		}
	}

	title := fmt.Sprintf("Tasks (%d/%d)", len(tasks), len(m.snapshot.Tasks))
	return m.renderTitledBox(title, strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) renderTaskFilterBar(width int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	active := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Accent)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true)

	segments := []string{bg.Render("Filter:", styles.MutedText)}
	for _, f := range []dashboard.TaskFilter{dashboard.TaskFilterAll, dashboard.TaskFilterPending, dashboard.TaskFilterCompleted, dashboard.TaskFilterHigh} {
		if f == m.tasks.filter {
			segments = append(segments, active.Render(" "+f.Label()+" "))
			continue
		}
		segments = append(segments, bg.Render(" "+f.Label()+" ", styles.MutedText))
	}
	bar := bg.Join(segments, " ")
	if m.tasks.searching || m.tasks.search.Value() != "" {
		bar += bg.Spaces(3) + m.tasks.search.View()
	}
	return bg.FillLine(bar, width)
}

// renderTaskRows renders one task as a title row and a detail row.
func (m Model) renderTaskRows(task api.Task, width int, selected bool) []string {
	rowBg := m.theme.FocusBg
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)
	styles := m.theme.Styles()

	icon := ternary(task.Completed, "✅", "⏳")
	priority := task.Priority
	if priority == "" {
		priority = api.PriorityMedium
	}
	badge := styles.StatusStyle(priority).Render(dashboard.PriorityIcon(priority) + " " + titleCase(priority))

	titleStyle := styles.Text.Bold(true)
	if task.Completed {
		titleStyle = styles.MutedText.Strikethrough(true)
	}
	if selected {
		titleStyle = titleStyle.Foreground(lipgloss.Color(m.theme.SelectionText))
	}
	titleWidth := max(width-lipgloss.Width(badge)-8, 10)
	head := bg.Render(icon, styles.Text) + bg.Space() + badge + bg.Space() +
		bg.Render(truncate(singleLine(task.Title), titleWidth), titleStyle)

	var details []string
	if desc := singleLine(task.Description); desc != "" {
		details = append(details, desc)
	}
	if due := dashboard.FormatDate(task.ParsedDueDate()); due != "" {
		details = append(details, "Due: "+due)
	}
	if created := dashboard.FormatDateTime(task.ParsedCreatedAt()); created != "" {
		details = append(details, "Created: "+created)
	}
	detail := bg.Spaces(3) + bg.Render(truncate(strings.Join(details, " · "), max(width-4, 10)), styles.MutedText)

	return []string{bg.FillLine(head, width), bg.FillLine(detail, width)}
}
