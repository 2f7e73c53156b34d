// Package state holds the last fetched collection of every panel and the
// bookkeeping the UI needs to render it.
//
// # Sequencing
//
// The poller and the UI both refresh panels, so two requests for the same
// panel can be in flight at once. Every request takes a sequence number from
// Begin and hands it back with its result:
//
//	seq := store.Begin(state.PanelTasks)
//	tasks, err := client.FetchTasks(ctx)
//	if err != nil {
//		store.Fail(state.PanelTasks, seq, err)
//		return
//	}
//	store.ApplyTasks(seq, tasks)
//
// A result older than the last one recorded for that panel is dropped, so a
// slow response can never overwrite a newer one.
//
// # Update Semantics
//
// Apply replaces the collection wholesale. Fail keeps the previous data,
// records the error, and appends to a bounded failure history whose Gen
// counter lets the UI raise one toast per failure.
//
// Status failures drive IsOffline: two consecutive failed status polls mark
// the backend offline until the next successful one.
//
// The zero Store is ready to use. Snapshot returns deep copies.
package state
