package dashboard

import (
	"strings"

	"github.com/mcpdash/mcpdash/internal/api"
)

// TaskFilter selects which tasks the tasks panel shows.
type TaskFilter int

const (
	TaskFilterAll TaskFilter = iota
	TaskFilterPending
	TaskFilterCompleted
	TaskFilterHigh
)

// Label returns the display label for the filter.
func (f TaskFilter) Label() string {
	switch f {
	case TaskFilterPending:
		return "Pending"
	case TaskFilterCompleted:
		return "Completed"
	case TaskFilterHigh:
		return "High priority"
	default:
		return "All"
	}
}

// Next cycles all → pending → completed → high → all.
func (f TaskFilter) Next() TaskFilter {
	switch f {
	case TaskFilterAll:
		return TaskFilterPending
	case TaskFilterPending:
		return TaskFilterCompleted
	case TaskFilterCompleted:
		return TaskFilterHigh
	default:
		return TaskFilterAll
	}
}

// Match reports whether the task passes the filter.
func (f TaskFilter) Match(task api.Task) bool {
	switch f {
	case TaskFilterPending:
		return !task.Completed
	case TaskFilterCompleted:
		return task.Completed
	case TaskFilterHigh:
		return task.Priority == api.PriorityHigh && !task.Completed
	default:
		return true
	}
}

// FilterTasks returns the tasks that pass the filter, preserving order.
func FilterTasks(tasks []api.Task, filter TaskFilter) []api.Task {
	out := make([]api.Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Match(task) {
			out = append(out, task)
		}
	}
	return out
}

// SearchTasks narrows tasks to those whose title or description contains
// term, case-insensitively. Whitespace in term is significant; an empty term
// returns tasks unchanged.
func SearchTasks(tasks []api.Task, term string) []api.Task {
	term = strings.ToLower(term)
	if term == "" {
		return tasks
	}
	out := make([]api.Task, 0, len(tasks))
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), term) ||
			strings.Contains(strings.ToLower(task.Description), term) {
			out = append(out, task)
		}
	}
	return out
}

// VisibleTasks applies the filter first, then the search.
func VisibleTasks(tasks []api.Task, filter TaskFilter, term string) []api.Task {
	return SearchTasks(FilterTasks(tasks, filter), term)
}

// TaskCounts summarizes a task collection.
type TaskCounts struct {
	Pending   int
	Completed int
	Total     int
}

// CountTasks tallies pending and completed tasks.
func CountTasks(tasks []api.Task) TaskCounts {
	counts := TaskCounts{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			counts.Completed++
		} else {
			counts.Pending++
		}
	}
	return counts
}

// RecentPending returns up to limit incomplete tasks in list order.
func RecentPending(tasks []api.Task, limit int) []api.Task {
	out := make([]api.Task, 0, limit)
	for _, task := range tasks {
		if len(out) >= limit {
			break
		}
		if !task.Completed {
			out = append(out, task)
		}
	}
	return out
}

// PriorityIcon returns the glyph shown next to a priority badge.
func PriorityIcon(priority string) string {
	switch priority {
	case api.PriorityHigh:
		return "🔴"
	case api.PriorityMedium:
		return "🟡"
	case api.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// NormalizePriority maps user input onto a known priority, defaulting to
// medium.
func NormalizePriority(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "h", api.PriorityHigh:
		return api.PriorityHigh
	case "l", api.PriorityLow:
		return api.PriorityLow
	default:
		return api.PriorityMedium
	}
}
