package dashboard

import (
	"strings"
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
)

// Limits applied when rendering collections.
const (
	DashboardTaskLimit  = 5
	DashboardEventLimit = 3
	NoteContentLimit    = 200
	ToolBadgeLimit      = 10
	DashboardDescLimit  = 100
)

// ConnectionSummary aggregates the connections panel header.
type ConnectionSummary struct {
	Active        int
	TotalRequests int
	UniqueTools   int
}

// SummarizeConnections derives header counters from a connections payload.
func SummarizeConnections(resp api.ConnectionsResponse) ConnectionSummary {
	tools := make(map[string]struct{})
	for _, client := range resp.Clients {
		for _, tool := range client.ToolsUsed {
			tools[tool] = struct{}{}
		}
	}
	return ConnectionSummary{
		Active:        resp.Active,
		TotalRequests: resp.Stats.TotalRequests,
		UniqueTools:   len(tools),
	}
}

// ClientIcon picks a glyph from the peer's self-reported name.
func ClientIcon(clientName string) string {
	name := strings.ToLower(clientName)
	switch {
	case strings.Contains(name, "claude"):
		return "🤖"
	case strings.Contains(name, "server"):
		return "🖥️"
	case strings.Contains(name, "web"):
		return "🌐"
	case strings.Contains(name, "desktop"):
		return "💻"
	default:
		return "📡"
	}
}

// SplitTools returns the badges to show and how many were hidden.
func SplitTools(tools []string, limit int) ([]string, int) {
	if len(tools) <= limit {
		return tools, 0
	}
	return tools[:limit], len(tools) - limit
}

// Truncate cuts value to limit runes and appends "..." when it was longer.
func Truncate(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}

// ParseTags splits comma separated tags, dropping blanks.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PlaceholderEvents fabricates the single event shown when no events backend
// is configured.
func PlaceholderEvents(now time.Time) []api.Event {
	return []api.Event{
		{
			ID:          1,
			Title:       "Team meeting",
			Start:       now.Format(time.RFC3339),
			Description: "Weekly team meeting",
		},
	}
}

// Upcoming returns at most limit events in list order.
func Upcoming(events []api.Event, limit int) []api.Event {
	if len(events) <= limit {
		return events
	}
	return events[:limit]
}

// FormatDate renders a date the way the dashboard shows due dates.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("02/01/2006")
}

// FormatDateTime renders a timestamp with minute precision.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("02/01/2006 15:04")
}
