// Package api provides an HTTP client for the MCP server dashboard API.
//
// # Overview
//
// The backend owns every entity the dashboard shows: tasks, notes, calendar
// events, MCP client connections, and raw log lines. This package is the
// only place that knows the wire shape of those records. Callers receive
// plain Go values and never see JSON.
//
// # Architecture
//
//   - client.go: HTTP client, request construction, error taxonomy
//   - types.go: data structures mirroring the API schema
//
// # Client Usage
//
//	client, err := api.NewClient("http://localhost:5000/api")
//	if err != nil {
//		return err
//	}
//
//	tasks, err := client.FetchTasks(ctx)
//	if err != nil {
//		return err
//	}
//
//	if err := client.CompleteTask(ctx, tasks[0].ID); err != nil {
//		return err
//	}
//
// # API Endpoints
//
//   - GET /status: server health and aggregate stats
//   - GET /tasks, POST /tasks: list and create tasks
//   - POST /tasks/{id}/complete: mark a task completed
//   - DELETE /tasks/{id}: delete a task
//   - GET /notes, POST /notes: list and create notes
//   - GET /events: calendar events (optional, see config.EventsSource)
//   - GET /connections: MCP client connections and request stats
//   - GET /logs?limit=N: most recent raw log lines
//
// There is no authentication, no pagination beyond the logs limit, and no
// streaming. The dashboard polls.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: mcpdash/0.1
//   - Carry a fresh X-Request-ID (uuid v4) so backend logs can be correlated
//   - Have a 5-second timeout unless WithTimeout overrides it
//
// # Error Handling
//
//   - Network errors: wrapped as "execute request: ..."
//   - Non-2xx responses: *StatusError carrying method, path and code; the
//     response body is never inspected
//   - Malformed JSON: wrapped as "decode response: ..."
//
// Missing JSON fields decode to zero values, so an absent stats.notes reads
// as 0 without special handling.
package api
