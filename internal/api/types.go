package api

import (
	"time"
)

const displayDateLayout = "2006-01-02"

// Priority levels accepted by the backend.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Connection states reported by /api/connections.
const (
	ConnectionActive       = "active"
	ConnectionDisconnected = "disconnected"
)

// StatusResponse mirrors the payload returned by /api/status.
type StatusResponse struct {
	Status      string      `json:"status"`
	Initialized bool        `json:"initialized"`
	Stats       StatusStats `json:"stats"`
	Timestamp   string      `json:"timestamp"`
}

// Running reports whether the backend declared itself healthy.
func (s StatusResponse) Running() bool {
	return s.Status == "running"
}

// StatusStats aggregates backend counters. Absent fields decode as zero.
type StatusStats struct {
	Tasks      int `json:"tasks"`
	Completed  int `json:"completed"`
	Notes      int `json:"notes"`
	Tools      int `json:"tools"`
	TotalTasks int `json:"total_tasks"`
}

// TaskListResponse mirrors GET /api/tasks.
type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
}

// Task is a backend-owned task record.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (t Task) ParsedCreatedAt() time.Time {
	return parseTime(t.CreatedAt)
}

// ParsedDueDate returns the parsed due date, zero when unset.
func (t Task) ParsedDueDate() time.Time {
	return parseTime(t.DueDate)
}

// NewTask is the body of POST /api/tasks.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// NoteListResponse mirrors GET /api/notes.
type NoteListResponse struct {
	Notes []Note `json:"notes"`
}

// Note is a backend-owned free text note.
type Note struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp, zero when unset.
func (n Note) ParsedCreatedAt() time.Time {
	return parseTime(n.CreatedAt)
}

// NewNote is the body of POST /api/notes. Tags are sent comma separated,
// the backend splits them.
type NewNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// EventListResponse mirrors GET /api/events.
type EventListResponse struct {
	Events []Event `json:"events"`
}

// Event is a calendar entry.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	Description string `json:"description,omitempty"`
}

// ParsedStart returns the parsed Start timestamp.
func (e Event) ParsedStart() time.Time {
	return parseTime(e.Start)
}

// ConnectionsResponse mirrors GET /api/connections.
type ConnectionsResponse struct {
	Active  int             `json:"active"`
	Stats   ConnectionStats `json:"stats"`
	Clients []Connection    `json:"clients"`
}

// ConnectionStats aggregates request counters across clients.
type ConnectionStats struct {
	TotalClients  int `json:"total_clients"`
	TotalRequests int `json:"total_requests"`
}

// Connection is an MCP protocol peer tracked by the backend.
type Connection struct {
	ClientID      string   `json:"client_id,omitempty"`
	ClientName    string   `json:"client_name"`
	Status        string   `json:"status"`
	ConnectedAt   string   `json:"connected_at"`
	LastActivity  string   `json:"last_activity"`
	RequestsCount int      `json:"requests_count"`
	ToolsUsed     []string `json:"tools_used"`
}

// IsActive reports whether the peer is currently connected.
func (c Connection) IsActive() bool {
	return c.Status == ConnectionActive
}

// ParsedConnectedAt returns the parsed ConnectedAt timestamp.
func (c Connection) ParsedConnectedAt() time.Time {
	return parseTime(c.ConnectedAt)
}

// ParsedLastActivity returns the parsed LastActivity timestamp.
func (c Connection) ParsedLastActivity() time.Time {
	return parseTime(c.LastActivity)
}

// LogListResponse mirrors GET /api/logs.
type LogListResponse struct {
	Logs []string `json:"logs"`
}

// The backend emits Python isoformat() timestamps, which carry no zone and
// up to microsecond precision.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	displayDateLayout,
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for i, layout := range timeLayouts {
		if i < 2 {
			if t, err := time.Parse(layout, value); err == nil {
				return t
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
