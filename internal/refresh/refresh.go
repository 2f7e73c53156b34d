// Package refresh fetches panel data from the backend and records the result
// in the state store. The poller and the UI share one Refresher.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/config"
	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/logtail"
	"github.com/mcpdash/mcpdash/internal/state"
)

// Options selects where events and logs come from.
type Options struct {
	EventsSource string // config.EventsPlaceholder or config.EventsAPI
	LogFile      string // when set, logs are read from this file
	LogLimit     int
}

// Refresher runs fetch-then-apply for each panel.
type Refresher struct {
	client api.Fetcher
	store  *state.Store
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
}

// New builds a Refresher. A zero LogLimit falls back to 100 lines.
func New(client api.Fetcher, store *state.Store, opts Options, logger zerolog.Logger) *Refresher {
	if opts.LogLimit <= 0 {
		opts.LogLimit = 100
	}
	if opts.EventsSource == "" {
		opts.EventsSource = config.EventsPlaceholder
	}
	return &Refresher{
		client: client,
		store:  store,
		opts:   opts,
		log:    logger.With().Str("component", "refresh").Logger(),
		now:    time.Now,
	}
}

// Store returns the store results are recorded in.
func (r *Refresher) Store() *state.Store {
	return r.store
}

// Status refreshes the server status and aggregate stats.
func (r *Refresher) Status(ctx context.Context) error {
	seq := r.store.Begin(state.PanelStatus)
	status, err := r.client.FetchStatus(ctx)
	if err != nil {
		return r.fail(state.PanelStatus, seq, err)
	}
	r.applied(state.PanelStatus, r.store.ApplyStatus(seq, *status))
	return nil
}

// Tasks refreshes the task list.
func (r *Refresher) Tasks(ctx context.Context) error {
	seq := r.store.Begin(state.PanelTasks)
	tasks, err := r.client.FetchTasks(ctx)
	if err != nil {
		return r.fail(state.PanelTasks, seq, err)
	}
	r.applied(state.PanelTasks, r.store.ApplyTasks(seq, tasks))
	return nil
}

// Notes refreshes the note list.
func (r *Refresher) Notes(ctx context.Context) error {
	seq := r.store.Begin(state.PanelNotes)
	notes, err := r.client.FetchNotes(ctx)
	if err != nil {
		return r.fail(state.PanelNotes, seq, err)
	}
	r.applied(state.PanelNotes, r.store.ApplyNotes(seq, notes))
	return nil
}

// Events refreshes calendar events. With the placeholder source no request is
// made and a single fabricated event is stored.
func (r *Refresher) Events(ctx context.Context) error {
	seq := r.store.Begin(state.PanelEvents)
	if r.opts.EventsSource != config.EventsAPI {
		r.applied(state.PanelEvents, r.store.ApplyEvents(seq, dashboard.PlaceholderEvents(r.now())))
		return nil
	}
	events, err := r.client.FetchEvents(ctx)
	if err != nil {
		return r.fail(state.PanelEvents, seq, err)
	}
	r.applied(state.PanelEvents, r.store.ApplyEvents(seq, events))
	return nil
}

// Connections refreshes MCP client connections.
func (r *Refresher) Connections(ctx context.Context) error {
	seq := r.store.Begin(state.PanelConnections)
	conns, err := r.client.FetchConnections(ctx)
	if err != nil {
		return r.fail(state.PanelConnections, seq, err)
	}
	r.applied(state.PanelConnections, r.store.ApplyConnections(seq, *conns))
	return nil
}

// Logs refreshes log lines from the API or the configured local file.
func (r *Refresher) Logs(ctx context.Context) error {
	seq := r.store.Begin(state.PanelLogs)
	var (
		lines []string
		err   error
	)
	if r.opts.LogFile != "" {
		lines, err = logtail.Read(r.opts.LogFile, r.opts.LogLimit)
	} else {
		lines, err = r.client.FetchLogs(ctx, r.opts.LogLimit)
	}
	if err != nil {
		return r.fail(state.PanelLogs, seq, err)
	}
	r.applied(state.PanelLogs, r.store.ApplyLogs(seq, lines))
	return nil
}

// Panel refreshes a single panel.
func (r *Refresher) Panel(ctx context.Context, p state.Panel) error {
	switch p {
	case state.PanelStatus:
		return r.Status(ctx)
	case state.PanelTasks:
		return r.Tasks(ctx)
	case state.PanelEvents:
		return r.Events(ctx)
	case state.PanelNotes:
		return r.Notes(ctx)
	case state.PanelConnections:
		return r.Connections(ctx)
	case state.PanelLogs:
		return r.Logs(ctx)
	default:
		return fmt.Errorf("unknown panel %v", p)
	}
}

// Tab refreshes every panel a tab displays.
func (r *Refresher) Tab(ctx context.Context, tab state.Tab) error {
	var errs []error
	for _, p := range tab.Panels() {
		if err := r.Panel(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Cycle is one poll: status, then whatever the active tab shows.
func (r *Refresher) Cycle(ctx context.Context) error {
	statusErr := r.Status(ctx)
	return errors.Join(statusErr, r.Tab(ctx, r.store.Active()))
}

// All refreshes every panel once.
func (r *Refresher) All(ctx context.Context) error {
	var errs []error
	for _, p := range state.Panels {
		if err := r.Panel(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Refresher) fail(p state.Panel, seq uint64, err error) error {
	wrapped := fmt.Errorf("refresh %s: %w", p, err)
	if !r.store.Fail(p, seq, err) {
		r.log.Debug().Str("panel", p.String()).Uint64("seq", seq).Err(err).Msg("discarded stale failure")
		return wrapped
	}
	r.log.Error().Str("panel", p.String()).Str("op", "fetch").Err(err).Msg("refresh failed")
	return wrapped
}

func (r *Refresher) applied(p state.Panel, ok bool) {
	if !ok {
		r.log.Debug().Str("panel", p.String()).Msg("discarded stale result")
	}
}
