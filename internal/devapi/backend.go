package devapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/dashboard"
)

// ErrNotFound is returned for unknown task ids.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps input validation failures.
var ErrInvalid = errors.New("invalid input")

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxContentLen     = 5000
	maxLogLines       = 1000
	toolCount         = 14

	isoLayout = "2006-01-02T15:04:05.000000"
	logLayout = "2006-01-02 15:04:05,000"
)

// Backend is the in-memory state behind the development API.
type Backend struct {
	mu         sync.Mutex
	tasks      []api.Task
	notes      []api.Note
	events     []api.Event
	clients    []api.Connection
	logs       []string
	nextTaskID int64
	nextNoteID int64
	name       string
	now        func() time.Time
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		nextTaskID: 1,
		nextNoteID: 1,
		name:       "devapi",
		now:        time.Now,
	}
}

func (b *Backend) stamp() string {
	return b.now().Format(isoLayout)
}

// logLocked appends a line in the "time [LEVEL] name: message" format.
func (b *Backend) logLocked(level, format string, args ...any) {
	line := fmt.Sprintf("%s [%s] %s: %s", b.now().Format(logLayout), level, b.name, fmt.Sprintf(format, args...))
	b.logs = append(b.logs, line)
	if extra := len(b.logs) - maxLogLines; extra > 0 {
		b.logs = append([]string(nil), b.logs[extra:]...)
	}
}

// Log records a line in the backend's own log.
func (b *Backend) Log(level, format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logLocked(strings.ToUpper(level), format, args...)
}

var priorityOrder = map[string]int{
	api.PriorityHigh:   0,
	api.PriorityMedium: 1,
	api.PriorityLow:    2,
}

// Tasks lists tasks, pending first, then by priority.
func (b *Backend) Tasks() []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]api.Task(nil), b.tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return rank(out[i].Priority) < rank(out[j].Priority)
	})
	b.logLocked("INFO", "📋 Listing %d tasks", len(out))
	return out
}

func rank(priority string) int {
	if r, ok := priorityOrder[priority]; ok {
		return r
	}
	return 1
}

// SearchTasks returns tasks whose title or description contain q.
func (b *Backend) SearchTasks(q string) []api.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []api.Task{}
	}
	matches := []api.Task{}
	for _, task := range b.tasks {
		if strings.Contains(strings.ToLower(task.Title), q) || strings.Contains(strings.ToLower(task.Description), q) {
			matches = append(matches, task)
		}
	}
	b.logLocked("INFO", "🔍 Found %d tasks for '%s'", len(matches), q)
	return matches
}

// CreateTask stores a new task. Unknown priorities become medium.
func (b *Backend) CreateTask(in api.NewTask) (api.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return api.Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len([]rune(title)) > maxTitleLen {
		return api.Task{}, fmt.Errorf("%w: title longer than %d characters", ErrInvalid, maxTitleLen)
	}
	if len([]rune(in.Description)) > maxDescriptionLen {
		return api.Task{}, fmt.Errorf("%w: description longer than %d characters", ErrInvalid, maxDescriptionLen)
	}
	priority := in.Priority
	if _, ok := priorityOrder[priority]; !ok {
		priority = api.PriorityMedium
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	task := api.Task{
		ID:          b.nextTaskID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     strings.TrimSpace(in.DueDate),
		CreatedAt:   b.stamp(),
	}
	b.nextTaskID++
	b.tasks = append(b.tasks, task)
	b.logLocked("INFO", "✅ Task created: #%d - %s", task.ID, task.Title)
	return task, nil
}

// CompleteTask marks a task completed. Completing twice is not an error.
func (b *Backend) CompleteTask(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Completed = true
			b.logLocked("INFO", "✅ Task completed: %s", b.tasks[i].Title)
			return nil
		}
	}
	b.logLocked("ERROR", "❌ Task #%d not found", id)
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// DeleteTask removes a task.
func (b *Backend) DeleteTask(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, task := range b.tasks {
		if task.ID == id {
			b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
			b.logLocked("WARNING", "🗑️ Task deleted: %s", task.Title)
			return nil
		}
	}
	b.logLocked("ERROR", "❌ Task #%d not found", id)
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}

// Notes lists notes, newest first.
func (b *Backend) Notes() []api.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.Note, len(b.notes))
	for i := range b.notes {
		out[len(b.notes)-1-i] = b.notes[i]
	}
	b.logLocked("INFO", "📝 Listing %d notes", len(out))
	return out
}

// CreateNote stores a note; tags arrive comma separated.
func (b *Backend) CreateNote(in api.NewNote) (api.Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return api.Note{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len([]rune(title)) > maxTitleLen {
		return api.Note{}, fmt.Errorf("%w: title longer than %d characters", ErrInvalid, maxTitleLen)
	}
	if len([]rune(in.Content)) > maxContentLen {
		return api.Note{}, fmt.Errorf("%w: content longer than %d characters", ErrInvalid, maxContentLen)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	tags := dashboard.ParseTags(in.Tags)
	if tags == nil {
		tags = []string{}
	}
	note := api.Note{
		ID:        b.nextNoteID,
		Title:     title,
		Content:   in.Content,
		Tags:      tags,
		CreatedAt: b.stamp(),
	}
	b.nextNoteID++
	b.notes = append(b.notes, note)
	b.logLocked("INFO", "✅ Note created: %s", note.Title)
	return note, nil
}

// Events lists calendar events in start order.
func (b *Backend) Events() []api.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]api.Event(nil), b.events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ParsedStart().Before(out[j].ParsedStart())
	})
	return out
}

// AddEvent stores a calendar event.
func (b *Backend) AddEvent(title string, start time.Time, description string) api.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	event := api.Event{
		ID:          int64(len(b.events) + 1),
		Title:       title,
		Start:       start.Format(time.RFC3339),
		Description: description,
	}
	b.events = append(b.events, event)
	return event
}

// RegisterClient records a connected MCP client. Registering a known id
// reactivates it.
func (b *Backend) RegisterClient(id, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.stamp()
	for i := range b.clients {
		if b.clients[i].ClientID == id {
			b.clients[i].Status = api.ConnectionActive
			b.clients[i].LastActivity = now
			b.logLocked("INFO", "Client reconnected: %s (%s)", name, id)
			return
		}
	}
	b.clients = append(b.clients, api.Connection{
		ClientID:     id,
		ClientName:   name,
		Status:       api.ConnectionActive,
		ConnectedAt:  now,
		LastActivity: now,
		ToolsUsed:    []string{},
	})
	b.logLocked("INFO", "New client connected: %s (%s)", name, id)
}

// RecordActivity counts a request from a client and the tool it used.
func (b *Backend) RecordActivity(id, tool string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.clients {
		c := &b.clients[i]
		if c.ClientID != id {
			continue
		}
		c.LastActivity = b.stamp()
		c.RequestsCount++
		c.Status = api.ConnectionActive
		if tool != "" && !contains(c.ToolsUsed, tool) {
			c.ToolsUsed = append(c.ToolsUsed, tool)
		}
		return
	}
	b.logLocked("WARNING", "⚠️ Client not registered: %s", id)
}

// DisconnectClient marks a client disconnected.
func (b *Backend) DisconnectClient(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.clients {
		if b.clients[i].ClientID == id {
			b.clients[i].Status = api.ConnectionDisconnected
			b.clients[i].LastActivity = b.stamp()
			b.logLocked("INFO", "Client disconnected: %s", id)
			return
		}
	}
}

func contains(items []string, item string) bool {
	for _, v := range items {
		if v == item {
			return true
		}
	}
	return false
}

// Connections reports every known client and aggregate stats.
func (b *Backend) Connections() api.ConnectionsResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	resp := api.ConnectionsResponse{
		Clients: make([]api.Connection, len(b.clients)),
	}
	for i, c := range b.clients {
		c.ToolsUsed = append([]string{}, c.ToolsUsed...)
		resp.Clients[i] = c
		if c.Status == api.ConnectionActive {
			resp.Active++
		}
		resp.Stats.TotalRequests += c.RequestsCount
	}
	resp.Stats.TotalClients = len(b.clients)
	return resp
}

// Status reports the server as running with task and note counts.
func (b *Backend) Status() api.StatusResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := dashboard.CountTasks(b.tasks)
	return api.StatusResponse{
		Status:      "running",
		Initialized: true,
		Stats: api.StatusStats{
			Tasks:      counts.Pending,
			Completed:  counts.Completed,
			Notes:      len(b.notes),
			Tools:      toolCount,
			TotalTasks: counts.Total,
		},
		Timestamp: b.stamp(),
	}
}

// Metrics summarizes tasks by state and priority.
type Metrics struct {
	Tasks struct {
		Total          int     `json:"total"`
		Pending        int     `json:"pending"`
		Completed      int     `json:"completed"`
		CompletionRate float64 `json:"completion_rate"`
	} `json:"tasks"`
	Priority map[string]int `json:"priority"`
	Notes    struct {
		Total int `json:"total"`
	} `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// Metrics computes the metrics payload.
func (b *Backend) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	var m Metrics
	counts := dashboard.CountTasks(b.tasks)
	m.Tasks.Total = counts.Total
	m.Tasks.Pending = counts.Pending
	m.Tasks.Completed = counts.Completed
	if counts.Total > 0 {
		rate := float64(counts.Completed) / float64(counts.Total) * 100
		m.Tasks.CompletionRate = float64(int(rate*100+0.5)) / 100
	}
	m.Priority = map[string]int{api.PriorityHigh: 0, api.PriorityMedium: 0, api.PriorityLow: 0}
	for _, task := range b.tasks {
		if !task.Completed {
			m.Priority[task.Priority]++
		}
	}
	m.Notes.Total = len(b.notes)
	m.Timestamp = b.stamp()
	b.logLocked("INFO", "📊 Metrics requested")
	return m
}

// Logs returns the last limit lines, optionally only those of one level.
func (b *Backend) Logs(limit int, level string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := b.logs
	level = strings.ToUpper(strings.TrimSpace(level))
	if level != "" && level != "ALL" {
		tag := "[" + level + "]"
		filtered := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.Contains(line, tag) {
				filtered = append(filtered, line)
			}
		}
		lines = filtered
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return append([]string{}, lines...)
}
