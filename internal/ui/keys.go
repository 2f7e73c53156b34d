package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// Tab selection
	TabDashboard   key.Binding
	TabTasks       key.Binding
	TabCalendar    key.Binding
	TabNotes       key.Binding
	TabLogs        key.Binding
	TabConnections key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Panel actions
	CycleFilter key.Binding
	Search      key.Binding
	Clear       key.Binding
	New         key.Binding
	Complete    key.Binding
	Delete      key.Binding

	// Confirmation and forms
	Confirm   key.Binding
	Yes       key.Binding
	No        key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q/ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next panel"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous panel"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh panel now"),
		),

		TabDashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Dashboard"),
		),
		TabTasks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Tasks"),
		),
		TabCalendar: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Calendar"),
		),
		TabNotes: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Notes"),
		),
		TabLogs: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Logs"),
		),
		TabConnections: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Connections"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle task or log filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear log filter and search"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New task/note/event"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Complete task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete task (asks y/n)"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "No"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TabDashboard, k.TabTasks, k.TabCalendar, k.TabNotes, k.TabLogs, k.TabConnections},
		{k.NextTab, k.PrevTab, k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleFilter, k.Search, k.Escape, k.Clear},
		{k.New, k.Complete, k.Delete},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}

// tabBindings lists the number keys in tab order.
func (k keyMap) tabBindings() []key.Binding {
	return []key.Binding{k.TabDashboard, k.TabTasks, k.TabCalendar, k.TabNotes, k.TabLogs, k.TabConnections}
}
