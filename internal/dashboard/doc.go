// Package dashboard holds the pure view logic of the panels: task and log
// filters, search, counters, classification, and small formatting helpers.
//
// Every function works over the last fetched collection and never talks to
// the backend. Filter and search compose with AND, base filter first.
package dashboard
