package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
)

// Panel identifies one backend collection held by the store.
type Panel int

const (
	PanelStatus Panel = iota
	PanelTasks
	PanelEvents
	PanelNotes
	PanelConnections
	PanelLogs
)

// Panels lists every panel in load order.
var Panels = []Panel{PanelStatus, PanelTasks, PanelEvents, PanelNotes, PanelConnections, PanelLogs}

func (p Panel) String() string {
	switch p {
	case PanelStatus:
		return "status"
	case PanelTasks:
		return "tasks"
	case PanelEvents:
		return "events"
	case PanelNotes:
		return "notes"
	case PanelConnections:
		return "connections"
	case PanelLogs:
		return "logs"
	default:
		return fmt.Sprintf("panel(%d)", int(p))
	}
}

// maxFailures bounds the failure history kept for the UI.
const maxFailures = 32

// PanelState is the bookkeeping for one panel.
type PanelState struct {
	Loaded              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Failure is one recorded refresh failure. Gen increases monotonically across
// all panels so consumers can tell which failures they have already seen.
type Failure struct {
	Gen   uint64
	Panel Panel
	Err   error
	At    time.Time
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Status      api.StatusResponse
	HasStatus   bool
	Tasks       []api.Task
	Events      []api.Event
	Notes       []api.Note
	Connections api.ConnectionsResponse
	Logs        []string

	Panels      map[Panel]PanelState
	Active      Tab
	LastUpdated time.Time
	Failures    []Failure
	FailureGen  uint64
}

// Panel returns the bookkeeping for p.
func (s Snapshot) Panel(p Panel) PanelState {
	return s.Panels[p]
}

// IsOffline returns true when status polling failed at least twice in a row.
func (s Snapshot) IsOffline() bool {
	return s.Panels[PanelStatus].ConsecutiveFailures >= 2
}

// FailuresSince returns failures newer than gen, oldest first.
func (s Snapshot) FailuresSince(gen uint64) []Failure {
	var out []Failure
	for _, f := range s.Failures {
		if f.Gen > gen {
			out = append(out, f)
		}
	}
	return out
}

// Store coordinates concurrent updates from the poller and the UI. Each
// panel has a monotonic request sequence: results are applied only when they
// belong to a request newer than the last one applied for that panel.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	next     map[Panel]uint64
	applied  map[Panel]uint64
}

func (s *Store) initLocked() {
	if s.next == nil {
		s.next = make(map[Panel]uint64)
		s.applied = make(map[Panel]uint64)
		s.snapshot.Panels = make(map[Panel]PanelState)
	}
}

// Begin hands out the sequence number for a new request on panel p.
func (s *Store) Begin(p Panel) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked()
	s.next[p]++
	return s.next[p]
}

// acceptLocked reports whether seq is newer than the last result recorded for p
// and, when it is, marks it as the latest.
func (s *Store) acceptLocked(p Panel, seq uint64) bool {
	s.initLocked()
	if seq <= s.applied[p] {
		return false
	}
	s.applied[p] = seq
	return true
}

func (s *Store) succeedLocked(p Panel) {
	now := time.Now()
	s.snapshot.Panels[p] = PanelState{Loaded: true, LastUpdated: now}
	s.snapshot.LastUpdated = now
}

// ApplyStatus stores a status result. It returns false when the result was
// stale and discarded.
func (s *Store) ApplyStatus(seq uint64, status api.StatusResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelStatus, seq) {
		return false
	}
	s.snapshot.Status = status
	s.snapshot.HasStatus = true
	s.succeedLocked(PanelStatus)
	return true
}

// ApplyTasks replaces the task collection.
func (s *Store) ApplyTasks(seq uint64, tasks []api.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelTasks, seq) {
		return false
	}
	s.snapshot.Tasks = cloneSlice(tasks)
	s.succeedLocked(PanelTasks)
	return true
}

// ApplyEvents replaces the event collection.
func (s *Store) ApplyEvents(seq uint64, events []api.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelEvents, seq) {
		return false
	}
	s.snapshot.Events = cloneSlice(events)
	s.succeedLocked(PanelEvents)
	return true
}

// ApplyNotes replaces the note collection.
func (s *Store) ApplyNotes(seq uint64, notes []api.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelNotes, seq) {
		return false
	}
	s.snapshot.Notes = cloneNotes(notes)
	s.succeedLocked(PanelNotes)
	return true
}

// ApplyConnections replaces the connections payload.
func (s *Store) ApplyConnections(seq uint64, conns api.ConnectionsResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelConnections, seq) {
		return false
	}
	s.snapshot.Connections = cloneConnections(conns)
	s.succeedLocked(PanelConnections)
	return true
}

// ApplyLogs replaces the log lines.
func (s *Store) ApplyLogs(seq uint64, lines []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(PanelLogs, seq) {
		return false
	}
	s.snapshot.Logs = cloneSlice(lines)
	s.succeedLocked(PanelLogs)
	return true
}

// Fail records a failed request for panel p. The previous data is kept so
// the panel stays visible. Stale failures are discarded.
func (s *Store) Fail(p Panel, seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptLocked(p, seq) {
		return false
	}

	now := time.Now()
	ps := s.snapshot.Panels[p]
	ps.LastError = err
	ps.ConsecutiveFailures++
	ps.LastUpdated = now
	s.snapshot.Panels[p] = ps

	s.snapshot.FailureGen++
	s.snapshot.Failures = append(s.snapshot.Failures, Failure{
		Gen:   s.snapshot.FailureGen,
		Panel: p,
		Err:   err,
		At:    now,
	})
	if extra := len(s.snapshot.Failures) - maxFailures; extra > 0 {
		s.snapshot.Failures = append([]Failure(nil), s.snapshot.Failures[extra:]...)
	}
	return true
}

// SetActive records the tab the user is looking at.
func (s *Store) SetActive(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Active = tab
}

// Active returns the tab the user is looking at.
func (s *Store) Active() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Active
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Tasks = cloneSlice(s.snapshot.Tasks)
	snap.Events = cloneSlice(s.snapshot.Events)
	snap.Notes = cloneNotes(s.snapshot.Notes)
	snap.Connections = cloneConnections(s.snapshot.Connections)
	snap.Logs = cloneSlice(s.snapshot.Logs)
	snap.Failures = cloneSlice(s.snapshot.Failures)
	snap.Panels = make(map[Panel]PanelState, len(s.snapshot.Panels))
	for p, ps := range s.snapshot.Panels {
		if ps.LastError != nil {
			ps.LastError = fmt.Errorf("%w", ps.LastError)
		}
		snap.Panels[p] = ps
	}
	return snap
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

func cloneNotes(notes []api.Note) []api.Note {
	dup := cloneSlice(notes)
	for i := range dup {
		dup[i].Tags = cloneSlice(dup[i].Tags)
	}
	return dup
}

func cloneConnections(conns api.ConnectionsResponse) api.ConnectionsResponse {
	dup := conns
	dup.Clients = cloneSlice(conns.Clients)
	for i := range dup.Clients {
		dup.Clients[i].ToolsUsed = cloneSlice(dup.Clients[i].ToolsUsed)
	}
	return dup
}
