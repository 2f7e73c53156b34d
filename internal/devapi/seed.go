package devapi

import (
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
)

// Seed fills the backend with a small demo dataset.
func Seed(b *Backend) {
	b.Log("INFO", "============================================================")
	b.Log("INFO", "🚀 Initializing MCP server modules")

	for _, t := range []api.NewTask{
		{Title: "Review pull requests", Description: "Go through the open PRs on the dashboard repo", Priority: api.PriorityHigh},
		{Title: "Write release notes", Description: "Summarize changes since the last tag", Priority: api.PriorityMedium},
		{Title: "Tidy calendar", Description: "", Priority: api.PriorityLow, DueDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02")},
	} {
		_, _ = b.CreateTask(t)
	}
	if created, err := b.CreateTask(api.NewTask{Title: "Set up MCP server", Priority: api.PriorityHigh}); err == nil {
		_ = b.CompleteTask(created.ID)
	}

	_, _ = b.CreateNote(api.NewNote{Title: "Ideas", Content: "Add a metrics panel and keyboard shortcuts.", Tags: "ideas, dashboard"})
	_, _ = b.CreateNote(api.NewNote{Title: "Meeting notes", Content: "Discussed the roadmap for the next quarter.", Tags: "meetings"})

	now := time.Now()
	b.AddEvent("Team meeting", now.Add(2*time.Hour), "Weekly team meeting")
	b.AddEvent("Release", now.AddDate(0, 0, 3), "")

	b.RegisterClient("claude-desktop-1", "Claude Desktop")
	b.RecordActivity("claude-desktop-1", "list_tasks")
	b.RecordActivity("claude-desktop-1", "create_task")
	b.RecordActivity("claude-desktop-1", "list_tasks")
	b.RegisterClient("web-ui", "Web Dashboard")
	b.RecordActivity("web-ui", "get_status")
	b.DisconnectClient("web-ui")

	b.Log("INFO", "✅ Tasks module initialized")
	b.Log("WARNING", "⚠️ Calendar module running without credentials")
}
