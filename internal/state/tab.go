package state

import "strings"

// Tab is one of the dashboard views.
type Tab int

const (
	TabDashboard Tab = iota
	TabTasks
	TabCalendar
	TabNotes
	TabLogs
	TabConnections
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabDashboard, TabTasks, TabCalendar, TabNotes, TabLogs, TabConnections}

func (t Tab) String() string {
	switch t {
	case TabTasks:
		return "tasks"
	case TabCalendar:
		return "calendar"
	case TabNotes:
		return "notes"
	case TabLogs:
		return "logs"
	case TabConnections:
		return "connections"
	default:
		return "dashboard"
	}
}

// Title is the label shown in the tab bar.
func (t Tab) Title() string {
	switch t {
	case TabTasks:
		return "Tasks"
	case TabCalendar:
		return "Calendar"
	case TabNotes:
		return "Notes"
	case TabLogs:
		return "Logs"
	case TabConnections:
		return "Connections"
	default:
		return "Dashboard"
	}
}

// Next returns the tab to the right, wrapping around.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Prev returns the tab to the left, wrapping around.
func (t Tab) Prev() Tab {
	return Tabs[(int(t)+len(Tabs)-1)%len(Tabs)]
}

// Panels returns the collections a tab displays. The dashboard shows tasks
// and events.
func (t Tab) Panels() []Panel {
	switch t {
	case TabDashboard:
		return []Panel{PanelTasks, PanelEvents}
	case TabTasks:
		return []Panel{PanelTasks}
	case TabCalendar:
		return []Panel{PanelEvents}
	case TabNotes:
		return []Panel{PanelNotes}
	case TabLogs:
		return []Panel{PanelLogs}
	case TabConnections:
		return []Panel{PanelConnections}
	default:
		return nil
	}
}

// ParseTab maps a stored tab name back to a Tab, defaulting to the dashboard.
func ParseTab(name string) Tab {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Tabs {
		if t.String() == name {
			return t
		}
	}
	return TabDashboard
}
