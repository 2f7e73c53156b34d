// Package ui renders the dashboard as a Bubble Tea program.
//
// The Model never talks to the backend on its own render path. A background
// poller keeps a state.Store current; the UI re-reads the store on a short
// tick and after every tab switch, refresh or mutation. Load failures
// recorded in the store surface as toasts, once per failure.
//
// Panels:
//
//   - Dashboard: counters, recent pending tasks, upcoming events
//   - Tasks: filter, search, complete, delete and create
//   - Calendar and Notes: read-only lists with create forms
//   - Logs: filtered, searchable viewport that follows the newest line
//   - Connections: MCP client cards with tool badges
//
// Overlays (help, forms, confirmations) receive keys before the panels so
// typing never triggers a global shortcut.
package ui
