package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
)

func TestSummarizeConnections_CountsUniqueTools(t *testing.T) {
	resp := api.ConnectionsResponse{
		Active: 2,
		Stats:  api.ConnectionStats{TotalRequests: 42},
		Clients: []api.Connection{
			{ClientName: "Claude Desktop", ToolsUsed: []string{"create_task", "list_tasks"}},
			{ClientName: "web", ToolsUsed: []string{"list_tasks", "read_file"}},
			{ClientName: "idle"},
		},
	}
	got := SummarizeConnections(resp)
	want := ConnectionSummary{Active: 2, TotalRequests: 42, UniqueTools: 3}
	if got != want {
		t.Fatalf("SummarizeConnections = %+v, want %+v", got, want)
	}
	if empty := SummarizeConnections(api.ConnectionsResponse{}); empty != (ConnectionSummary{}) {
		t.Fatalf("SummarizeConnections(empty) = %+v, want zero", empty)
	}
}

func TestClientIcon(t *testing.T) {
	cases := map[string]string{
		"Claude Desktop": "🤖",
		"MCP Server":     "🖥️",
		"webapp":         "🌐",
		"My Desktop":     "💻",
		"cli":            "📡",
	}
	for name, want := range cases {
		if got := ClientIcon(name); got != want {
			t.Fatalf("ClientIcon(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSplitTools(t *testing.T) {
	tools := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	shown, hidden := SplitTools(tools, ToolBadgeLimit)
	if len(shown) != 10 || hidden != 2 {
		t.Fatalf("SplitTools = %d shown, %d hidden, want 10 and 2", len(shown), hidden)
	}
	shown, hidden = SplitTools(tools[:3], ToolBadgeLimit)
	if len(shown) != 3 || hidden != 0 {
		t.Fatalf("SplitTools(3) = %d shown, %d hidden, want 3 and 0", len(shown), hidden)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate(short) = %q", got)
	}
	if got := Truncate("ãéíõúãéíõú", 4); got != "ãéíõ..." {
		t.Fatalf("Truncate(runes) = %q, want ãéíõ...", got)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" go, tui ,, ideas ")
	if !reflect.DeepEqual(got, []string{"go", "tui", "ideas"}) {
		t.Fatalf("ParseTags = %q", got)
	}
	if got := ParseTags(""); got != nil {
		t.Fatalf("ParseTags(empty) = %q, want nil", got)
	}
}

func TestPlaceholderEvents(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	events := PlaceholderEvents(now)
	if len(events) != 1 {
		t.Fatalf("PlaceholderEvents returned %d events, want 1", len(events))
	}
	if !events[0].ParsedStart().Equal(now) {
		t.Fatalf("start = %v, want %v", events[0].ParsedStart(), now)
	}
	if got := Upcoming(append(events, events...), DashboardEventLimit); len(got) != 2 {
		t.Fatalf("Upcoming = %d events, want 2", len(got))
	}
}

func TestFormatDateTime(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.UTC
	defer func() {
		time.Local = oldLocal
	}()

	ts := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	if got := FormatDateTime(ts); got != "02/01/2024 15:04" {
		t.Fatalf("FormatDateTime = %q, want 02/01/2024 15:04", got)
	}
	if got := FormatDate(ts); got != "02/01/2024" {
		t.Fatalf("FormatDate = %q, want 02/01/2024", got)
	}
	if got := FormatDateTime(time.Time{}); got != "" {
		t.Fatalf("FormatDateTime(zero) = %q, want empty", got)
	}
}
