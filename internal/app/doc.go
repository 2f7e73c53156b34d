// Package app wires configuration, logging, the API client, the state store
// and the UI together.
//
// Run loads the config (file, then MCPDASH_* environment, then flags), opens
// the debug log, loads every panel once and starts the poller before handing
// the terminal to the UI. The poller refreshes the server status and the
// panels of the active tab on every tick; the UI only reads the store.
//
// Configuration and client errors are fatal. Poll failures are recorded in
// the store and shown as toasts, and polling continues.
package app
