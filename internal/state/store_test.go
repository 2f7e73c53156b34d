package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/mcpdash/mcpdash/internal/api"
)

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	seq := s.Begin(PanelTasks)
	if !s.ApplyTasks(seq, []api.Task{{ID: 1}, {ID: 2}}) {
		t.Fatalf("ApplyTasks returned false for fresh seq")
	}
	s.ApplyNotes(s.Begin(PanelNotes), []api.Note{{ID: 1, Tags: []string{"go"}}})

	snap := s.Snapshot()
	if len(snap.Tasks) != 2 || snap.Tasks[0].ID != 1 {
		t.Fatalf("snapshot tasks = %#v, want 2 items", snap.Tasks)
	}
	ps := snap.Panel(PanelTasks)
	if !ps.Loaded || ps.LastError != nil {
		t.Fatalf("panel state = %#v, want loaded without error", ps)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Tasks[0].ID = 999
	snap.Notes[0].Tags[0] = "mutated"
	snap2 := s.Snapshot()
	if snap2.Tasks[0].ID != 1 {
		t.Fatalf("Snapshot should clone tasks; got id %d want 1", snap2.Tasks[0].ID)
	}
	if snap2.Notes[0].Tags[0] != "go" {
		t.Fatalf("Snapshot should clone note tags; got %q", snap2.Notes[0].Tags[0])
	}
}

func TestStore_ApplyReplacesWholesale(t *testing.T) {
	var s Store

	s.ApplyTasks(s.Begin(PanelTasks), []api.Task{{ID: 1}, {ID: 2}, {ID: 3}})
	s.ApplyTasks(s.Begin(PanelTasks), []api.Task{{ID: 7}})

	snap := s.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != 7 {
		t.Fatalf("tasks = %#v, want only #7", snap.Tasks)
	}
}

func TestStore_StaleResultIsDiscarded(t *testing.T) {
	var s Store

	older := s.Begin(PanelLogs)
	newer := s.Begin(PanelLogs)

	if !s.ApplyLogs(newer, []string{"new"}) {
		t.Fatalf("ApplyLogs(newer) = false, want true")
	}
	if s.ApplyLogs(older, []string{"old"}) {
		t.Fatalf("ApplyLogs(older) = true, want stale discard")
	}
	if s.Fail(PanelLogs, older, errors.New("late failure")) {
		t.Fatalf("Fail(older) = true, want stale discard")
	}

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Logs, []string{"new"}) {
		t.Fatalf("logs = %q, want [new]", snap.Logs)
	}
	if snap.Panel(PanelLogs).LastError != nil {
		t.Fatalf("stale failure should not be recorded")
	}
	if snap.FailureGen != 0 {
		t.Fatalf("FailureGen = %d, want 0", snap.FailureGen)
	}
}

func TestStore_SequencesAreIndependentPerPanel(t *testing.T) {
	var s Store

	tasksSeq := s.Begin(PanelTasks)
	s.Begin(PanelNotes)
	s.Begin(PanelNotes)
	if !s.ApplyTasks(tasksSeq, nil) {
		t.Fatalf("tasks result should not be affected by notes sequence")
	}
}

func TestStore_FailKeepsPreviousData(t *testing.T) {
	var s Store

	s.ApplyTasks(s.Begin(PanelTasks), []api.Task{{ID: 1}})

	origErr := errors.New("boom")
	if !s.Fail(PanelTasks, s.Begin(PanelTasks), origErr) {
		t.Fatalf("Fail returned false for fresh seq")
	}

	snap := s.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].ID != 1 {
		t.Fatalf("tasks changed on error: got %#v", snap.Tasks)
	}
	ps := snap.Panel(PanelTasks)
	if ps.LastError == nil || ps.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", ps.LastError)
	}
	if !ps.Loaded {
		t.Fatalf("Loaded = false after failure, want previous data to remain loaded")
	}
	if reflect.ValueOf(ps.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(ps.LastError, origErr) {
		t.Fatalf("cloned error should wrap the original")
	}
}

func TestStore_FailuresSince(t *testing.T) {
	var s Store

	s.Fail(PanelTasks, s.Begin(PanelTasks), errors.New("one"))
	seen := s.Snapshot().FailureGen
	s.Fail(PanelNotes, s.Begin(PanelNotes), errors.New("two"))
	s.Fail(PanelLogs, s.Begin(PanelLogs), errors.New("three"))

	fresh := s.Snapshot().FailuresSince(seen)
	if len(fresh) != 2 {
		t.Fatalf("FailuresSince = %d failures, want 2", len(fresh))
	}
	if fresh[0].Panel != PanelNotes || fresh[1].Panel != PanelLogs {
		t.Fatalf("FailuresSince panels = %v, %v; want notes, logs", fresh[0].Panel, fresh[1].Panel)
	}
}

func TestStore_FailureHistoryIsBounded(t *testing.T) {
	var s Store
	for i := 0; i < maxFailures+10; i++ {
		s.Fail(PanelEvents, s.Begin(PanelEvents), errors.New("x"))
	}
	snap := s.Snapshot()
	if len(snap.Failures) != maxFailures {
		t.Fatalf("len(Failures) = %d, want %d", len(snap.Failures), maxFailures)
	}
	if snap.Failures[len(snap.Failures)-1].Gen != snap.FailureGen {
		t.Fatalf("newest failure gen = %d, want %d", snap.Failures[len(snap.Failures)-1].Gen, snap.FailureGen)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Fail(PanelStatus, s.Begin(PanelStatus), errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.Panel(PanelStatus).ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.Panel(PanelStatus).ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	s.Fail(PanelStatus, s.Begin(PanelStatus), errors.New("fail 2"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	// Failures on other panels do not make the dashboard offline.
	var other Store
	other.Fail(PanelLogs, other.Begin(PanelLogs), errors.New("x"))
	other.Fail(PanelLogs, other.Begin(PanelLogs), errors.New("y"))
	if other.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true after logs failures, want false")
	}

	s.ApplyStatus(s.Begin(PanelStatus), api.StatusResponse{Status: "running"})
	snap = s.Snapshot()
	if snap.Panel(PanelStatus).ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.Panel(PanelStatus).ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
	if !snap.HasStatus || snap.Status.Status != "running" {
		t.Fatalf("status = %#v, want running", snap.Status)
	}
}

func TestStore_ActiveTab(t *testing.T) {
	var s Store
	if s.Active() != TabDashboard {
		t.Fatalf("Active() = %v, want dashboard", s.Active())
	}
	s.SetActive(TabLogs)
	if s.Active() != TabLogs || s.Snapshot().Active != TabLogs {
		t.Fatalf("Active() = %v, want logs", s.Active())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.ApplyLogs(s.Begin(PanelLogs), []string{"line"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	if !s.Snapshot().Panel(PanelLogs).Loaded {
		t.Fatalf("logs panel should be loaded")
	}
}

func TestTab_CycleAndParse(t *testing.T) {
	if TabConnections.Next() != TabDashboard {
		t.Fatalf("Next wrap = %v, want dashboard", TabConnections.Next())
	}
	if TabDashboard.Prev() != TabConnections {
		t.Fatalf("Prev wrap = %v, want connections", TabDashboard.Prev())
	}
	for _, tab := range Tabs {
		if got := ParseTab(tab.String()); got != tab {
			t.Fatalf("ParseTab(%q) = %v, want %v", tab.String(), got, tab)
		}
	}
	if ParseTab("nope") != TabDashboard {
		t.Fatalf("ParseTab(unknown) should default to dashboard")
	}
	if got := TabDashboard.Panels(); !reflect.DeepEqual(got, []Panel{PanelTasks, PanelEvents}) {
		t.Fatalf("dashboard panels = %v, want tasks+events", got)
	}
}
