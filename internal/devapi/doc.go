// Package devapi is an in-memory implementation of the dashboard REST API
// for local development and integration tests.
//
// Routes (all under /api):
//
//	GET    /status
//	GET    /tasks
//	POST   /tasks
//	POST   /tasks/:id/complete
//	DELETE /tasks/:id
//	GET    /search/tasks?q=
//	GET    /notes
//	POST   /notes
//	GET    /events
//	GET    /connections
//	GET    /logs?limit=N&level=
//	GET    /metrics
//
// Tasks are listed pending first, then by priority (high, medium, low).
// Unknown task ids return 404. The backend logs its own actions as
// "time [LEVEL] devapi: message" lines, which /logs serves back.
//
// Nothing is persisted; restarting the server resets the data.
package devapi
