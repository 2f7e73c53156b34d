package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/prefs"
	"github.com/mcpdash/mcpdash/internal/refresh"
	"github.com/mcpdash/mcpdash/internal/state"
)

// fakeBackend serves both the read and write side of the API.
type fakeBackend struct {
	mu       sync.Mutex
	calls    map[string]int
	failWith map[string]error
	tasks    []api.Task
	logs     []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int), failWith: make(map[string]error)}
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.failWith[name]
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) FetchStatus(context.Context) (*api.StatusResponse, error) {
	if err := f.record("status"); err != nil {
		return nil, err
	}
	return &api.StatusResponse{Status: "running"}, nil
}

func (f *fakeBackend) FetchTasks(context.Context) ([]api.Task, error) {
	if err := f.record("tasks"); err != nil {
		return nil, err
	}
	return f.tasks, nil
}

func (f *fakeBackend) FetchNotes(context.Context) ([]api.Note, error) {
	return nil, f.record("notes")
}

func (f *fakeBackend) FetchEvents(context.Context) ([]api.Event, error) {
	return nil, f.record("events")
}

func (f *fakeBackend) FetchConnections(context.Context) (*api.ConnectionsResponse, error) {
	if err := f.record("connections"); err != nil {
		return nil, err
	}
	return &api.ConnectionsResponse{}, nil
}

func (f *fakeBackend) FetchLogs(context.Context, int) ([]string, error) {
	if err := f.record("logs"); err != nil {
		return nil, err
	}
	return f.logs, nil
}

func (f *fakeBackend) CreateTask(context.Context, api.NewTask) error {
	return f.record("create-task")
}

func (f *fakeBackend) CompleteTask(context.Context, int64) error {
	return f.record("complete-task")
}

func (f *fakeBackend) DeleteTask(context.Context, int64) error {
	return f.record("delete-task")
}

func (f *fakeBackend) CreateNote(context.Context, api.NewNote) error {
	return f.record("create-note")
}

func newTestModel(t *testing.T, backend *fakeBackend) (Model, *state.Store) {
	t.Helper()
	store := &state.Store{}
	refresher := refresh.New(backend, store, refresh.Options{}, zerolog.Nop())
	m := New(Options{
		Refresher: refresher,
		Mutator:   backend,
		Logger:    zerolog.Nop(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	return m, store
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, runeKey(string(r)))
	}
	return m
}

func toastTexts(m Model) []string {
	out := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		out = append(out, t.message)
	}
	return out
}

func loadTasks(t *testing.T, m Model, store *state.Store, tasks []api.Task) Model {
	t.Helper()
	seq := store.Begin(state.PanelTasks)
	store.ApplyTasks(seq, tasks)
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	return m
}

func TestNumberKey_SwitchesTabAndRefreshes(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)

	m, cmd := update(t, m, runeKey("2"))
	if m.tab != state.TabTasks {
		t.Fatalf("tab = %v, want %v", m.tab, state.TabTasks)
	}
	if got := store.Active(); got != state.TabTasks {
		t.Fatalf("store.Active() = %v, want %v", got, state.TabTasks)
	}
	if cmd == nil {
		t.Fatal("expected a refresh command after switching tabs")
	}
	if _, ok := cmd().(snapshotMsg); !ok {
		t.Fatal("refresh command did not return a snapshot")
	}
	if got := backend.count("tasks"); got != 1 {
		t.Fatalf("tasks fetches = %d, want 1", got)
	}
}

func TestTabSwitch_PersistsPreferences(t *testing.T) {
	backend := newFakeBackend()
	m, _ := newTestModel(t, backend)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != state.TabTasks {
		t.Fatalf("tab after tab key = %v, want %v", m.tab, state.TabTasks)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Tab != "tasks" {
		t.Fatalf("saved tab = %q, want tasks", p.Tab)
	}
}

func TestTasks_FilterCycleAndSearch(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m = loadTasks(t, m, store, []api.Task{
		{ID: 1, Title: "alpha", Priority: api.PriorityHigh},
		{ID: 2, Title: "beta", Priority: api.PriorityLow, Completed: true},
		{ID: 3, Title: "gamma", Description: "beta review", Priority: api.PriorityMedium},
	})
	m, _ = update(t, m, runeKey("2"))

	m, _ = update(t, m, runeKey("f"))
	if m.tasks.filter != dashboard.TaskFilterPending {
		t.Fatalf("filter = %v, want pending", m.tasks.filter)
	}
	if got := len(m.visibleTasks()); got != 2 {
		t.Fatalf("pending tasks = %d, want 2", got)
	}

	m, _ = update(t, m, runeKey("/"))
	if !m.tasks.searching {
		t.Fatal("expected search input to be focused")
	}
	m = typeText(t, m, "beta")
	visible := m.visibleTasks()
	if len(visible) != 1 || visible[0].ID != 3 {
		t.Fatalf("visible = %+v, want only task 3", visible)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.tasks.searching || m.tasks.search.Value() != "" {
		t.Fatal("esc should clear the search")
	}
	if got := len(m.visibleTasks()); got != 2 {
		t.Fatalf("visible after clear = %d, want 2", got)
	}
}

func TestCompleteTask_ToastsAndRefetches(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m = loadTasks(t, m, store, []api.Task{{ID: 7, Title: "ship it"}})
	m, _ = update(t, m, runeKey("2"))

	m, cmd := update(t, m, runeKey("c"))
	if cmd == nil {
		t.Fatal("expected a mutation command")
	}
	msg, ok := cmd().(mutationMsg)
	if !ok {
		t.Fatal("mutation command did not return a mutationMsg")
	}
	if msg.err != nil {
		t.Fatalf("mutation error = %v, want nil", msg.err)
	}
	if got := backend.count("complete-task"); got != 1 {
		t.Fatalf("complete calls = %d, want 1", got)
	}
	if got := backend.count("tasks"); got != 1 {
		t.Fatalf("tasks refetches = %d, want 1", got)
	}
	if got := backend.count("status"); got != 1 {
		t.Fatalf("status refetches = %d, want 1", got)
	}

	m, _ = update(t, m, msg)
	texts := toastTexts(m)
	if len(texts) != 1 || texts[0] != "Task completed! 🎉" {
		t.Fatalf("toasts = %v, want [Task completed! 🎉]", texts)
	}
}

func TestCompleteTask_FailureToast(t *testing.T) {
	backend := newFakeBackend()
	backend.failWith["complete-task"] = errors.New("boom")
	m, store := newTestModel(t, backend)
	m = loadTasks(t, m, store, []api.Task{{ID: 7, Title: "ship it"}})
	m, _ = update(t, m, runeKey("2"))

	m, cmd := update(t, m, runeKey("c"))
	m, _ = update(t, m, cmd())

	texts := toastTexts(m)
	if len(texts) != 1 || texts[0] != "Failed to complete task" {
		t.Fatalf("toasts = %v, want [Failed to complete task]", texts)
	}
	if m.toasts[0].kind != toastError {
		t.Fatalf("toast kind = %v, want %v", m.toasts[0].kind, toastError)
	}
	if got := backend.count("tasks"); got != 0 {
		t.Fatalf("tasks refetches after failure = %d, want 0", got)
	}
}

func TestCompleteTask_IgnoresCompleted(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m = loadTasks(t, m, store, []api.Task{{ID: 7, Title: "done", Completed: true}})
	m, _ = update(t, m, runeKey("2"))

	if _, cmd := update(t, m, runeKey("c")); cmd != nil {
		t.Fatal("completing a completed task should do nothing")
	}
}

func TestDeleteTask_RequiresConfirmation(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m = loadTasks(t, m, store, []api.Task{{ID: 9, Title: "old"}})
	m, _ = update(t, m, runeKey("2"))

	m, cmd := update(t, m, runeKey("d"))
	if cmd != nil || m.modal == nil {
		t.Fatal("delete should open a confirmation first")
	}

	m, cmd = update(t, m, runeKey("n"))
	if cmd != nil || m.modal != nil {
		t.Fatal("n should dismiss the confirmation without deleting")
	}

	m, _ = update(t, m, runeKey("d"))
	m, cmd = update(t, m, runeKey("y"))
	if m.modal != nil {
		t.Fatal("y should close the confirmation")
	}
	if cmd == nil {
		t.Fatal("y should return the delete command")
	}
	m, _ = update(t, m, cmd())
	if got := backend.count("delete-task"); got != 1 {
		t.Fatalf("delete calls = %d, want 1", got)
	}
	if texts := toastTexts(m); len(texts) != 1 || texts[0] != "Task deleted" {
		t.Fatalf("toasts = %v, want [Task deleted]", texts)
	}
}

func TestTaskForm_RequiresTitle(t *testing.T) {
	backend := newFakeBackend()
	m, _ := newTestModel(t, backend)
	m, _ = update(t, m, runeKey("2"))

	m, _ = update(t, m, runeKey("n"))
	form, ok := m.modal.(*formModal)
	if !ok {
		t.Fatalf("modal = %T, want *formModal", m.modal)
	}
	for range form.fields {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if m.modal == nil {
		t.Fatal("form closed without a title")
	}
	if form.problem != "Title is required" {
		t.Fatalf("problem = %q, want %q", form.problem, "Title is required")
	}
	if form.focus != 0 {
		t.Fatalf("focus = %d, want 0", form.focus)
	}

	m = typeText(t, m, "write docs")
	var cmd tea.Cmd
	for range form.fields {
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if m.modal != nil {
		t.Fatal("form should close after submit")
	}
	if _, ok := cmd().(mutationMsg); !ok {
		t.Fatal("submit did not run the create command")
	}
	if got := backend.count("create-task"); got != 1 {
		t.Fatalf("create calls = %d, want 1", got)
	}
}

func TestEventForm_ShowsInDevelopmentToast(t *testing.T) {
	backend := newFakeBackend()
	m, _ := newTestModel(t, backend)
	m, _ = update(t, m, runeKey("3"))

	m, _ = update(t, m, runeKey("n"))
	if m.modal == nil {
		t.Fatal("n should open the event form")
	}
	m = typeText(t, m, "launch")
	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	m, _ = update(t, m, cmd())

	if texts := toastTexts(m); len(texts) != 1 || texts[0] != "Feature in development" {
		t.Fatalf("toasts = %v, want [Feature in development]", texts)
	}
	if m.toasts[0].kind != toastInfo {
		t.Fatalf("toast kind = %v, want %v", m.toasts[0].kind, toastInfo)
	}
}

func TestLoadFailure_ToastsOncePerFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.failWith["tasks"] = errors.New("down")
	backend.failWith["status"] = errors.New("down")
	m, store := newTestModel(t, backend)
	refresher := m.refresher

	_ = refresher.Tasks(context.Background())
	_ = refresher.Status(context.Background())
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if texts := toastTexts(m); len(texts) != 1 || texts[0] != "Failed to load tasks" {
		t.Fatalf("toasts = %v, want [Failed to load tasks]", texts)
	}

	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if got := len(m.toasts); got != 1 {
		t.Fatalf("toasts after same snapshot = %d, want 1", got)
	}

	_ = refresher.Tasks(context.Background())
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if got := len(m.toasts); got != 2 {
		t.Fatalf("toasts after second failure = %d, want 2", got)
	}
}

func TestToastExpiry(t *testing.T) {
	backend := newFakeBackend()
	m, _ := newTestModel(t, backend)

	m, _ = update(t, m, toastMsg{kind: toastSuccess, text: "one"})
	m, _ = update(t, m, toastMsg{kind: toastWarning, text: "two"})
	first := m.toasts[0].id

	m, _ = update(t, m, toastExpiredMsg{id: first})
	if texts := toastTexts(m); len(texts) != 1 || texts[0] != "two" {
		t.Fatalf("toasts = %v, want [two]", texts)
	}
}

func TestView_EmptyStates(t *testing.T) {
	cases := []struct {
		key  string
		want []string
	}{
		{"1", []string{"No active tasks", "No upcoming events"}},
		{"2", []string{"No tasks found", "Create a new task to get started"}},
		{"3", []string{"No events scheduled"}},
		{"4", []string{"No notes found"}},
		{"5", []string{"No logs found"}},
		{"6", []string{"No clients connected", "Waiting for MCP client connections..."}},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			m, _ := newTestModel(t, newFakeBackend())
			m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
			m, _ = update(t, m, runeKey(tc.key))

			view := ansi.Strip(m.View())
			for _, want := range tc.want {
				if !strings.Contains(view, want) {
					t.Fatalf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestView_HeaderIndicator(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	if view := ansi.Strip(m.View()); !strings.Contains(view, "Connecting to") {
		t.Fatalf("header before first status missing Connecting:\n%s", view)
	}

	_ = m.refresher.Status(context.Background())
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "● Online") {
		t.Fatalf("header missing Online:\n%s", view)
	}

	backend.failWith["status"] = errors.New("refused")
	_ = m.refresher.Status(context.Background())
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "● Error") {
		t.Fatalf("header missing Error:\n%s", view)
	}
	if len(m.toasts) != 0 {
		t.Fatalf("status failures should not toast, got %v", toastTexts(m))
	}
}

func TestLogs_ErrorFilter(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	seq := store.Begin(state.PanelLogs)
	store.ApplyLogs(seq, []string{"INFO started", "ERROR boom", "WARNING slow"})
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, runeKey("5"))

	m, _ = update(t, m, runeKey("f"))
	if m.logs.filter != dashboard.LogFilterError {
		t.Fatalf("filter = %v, want error", m.logs.filter)
	}
	visible := m.visibleLogs()
	if len(visible) != 1 || visible[0] != "ERROR boom" {
		t.Fatalf("visible = %v, want [ERROR boom]", visible)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "ERROR boom") || strings.Contains(view, "INFO started") {
		t.Fatalf("view does not match the error filter:\n%s", view)
	}

	m, _ = update(t, m, runeKey("x"))
	if m.logs.filter != dashboard.LogFilterAll {
		t.Fatalf("filter after clear = %v, want all", m.logs.filter)
	}
	if got := len(m.visibleLogs()); got != 3 {
		t.Fatalf("visible after clear = %d, want 3", got)
	}
}

func TestHelp_AnyKeyCloses(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})

	m, _ = update(t, m, runeKey("?"))
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Fatalf("help view missing title:\n%s", view)
	}
	m, _ = update(t, m, runeKey("2"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
	if m.tab != state.TabDashboard {
		t.Fatal("the closing key should not also switch tabs")
	}
}

func numberedLogs(n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("INFO line %d", i))
	}
	return lines
}

func TestLogs_ScrollSurvivesSnapshots(t *testing.T) {
	m, store := newTestModel(t, newFakeBackend())
	seq := store.Begin(state.PanelLogs)
	store.ApplyLogs(seq, numberedLogs(200))
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, runeKey("5"))
	if !m.logViewport.AtBottom() {
		t.Fatal("logs tab should open at the newest line")
	}

	m, _ = update(t, m, runeKey("g"))
	m, _ = update(t, m, runeKey("j"))
	if m.logViewport.YOffset != 1 {
		t.Fatalf("YOffset after g,j = %d, want 1", m.logViewport.YOffset)
	}

	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if m.logViewport.YOffset != 1 {
		t.Fatalf("YOffset after unchanged snapshot = %d, want 1", m.logViewport.YOffset)
	}

	seq = store.Begin(state.PanelLogs)
	store.ApplyLogs(seq, numberedLogs(210))
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if m.logViewport.YOffset != 1 {
		t.Fatalf("YOffset after new lines while scrolled up = %d, want 1", m.logViewport.YOffset)
	}

	m, _ = update(t, m, runeKey("G"))
	seq = store.Begin(state.PanelLogs)
	store.ApplyLogs(seq, numberedLogs(220))
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	if !m.logViewport.AtBottom() {
		t.Fatal("a reader at the bottom should follow new lines")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "INFO line 219") {
		t.Fatalf("view missing newest line:\n%s", view)
	}
}

func TestScroll_OffsetStopsAtLastPage(t *testing.T) {
	m, store := newTestModel(t, newFakeBackend())
	notes := make([]api.Note, 0, 30)
	for i := 0; i < 30; i++ {
		notes = append(notes, api.Note{ID: int64(i + 1), Title: fmt.Sprintf("Note %d", i), Content: "body"})
	}
	seq := store.Begin(state.PanelNotes)
	store.ApplyNotes(seq, notes)
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, runeKey("4"))

	limit := m.maxScroll(state.TabNotes)
	if limit <= 0 {
		t.Fatalf("maxScroll = %d, want a scrollable notes panel", limit)
	}
	for i := 0; i < limit+50; i++ {
		m, _ = update(t, m, runeKey("j"))
	}
	if got := m.scroll[state.TabNotes]; got != limit {
		t.Fatalf("offset after holding j = %d, want %d", got, limit)
	}
	m, _ = update(t, m, runeKey("k"))
	if got := m.scroll[state.TabNotes]; got != limit-1 {
		t.Fatalf("offset after one k = %d, want %d", got, limit-1)
	}
}

func TestScroll_ShortPanelDoesNotMove(t *testing.T) {
	m, store := newTestModel(t, newFakeBackend())
	seq := store.Begin(state.PanelNotes)
	store.ApplyNotes(seq, []api.Note{{ID: 1, Title: "Only", Content: "body"}})
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = update(t, m, runeKey("4"))

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runeKey("j"))
	}
	if got := m.scroll[state.TabNotes]; got != 0 {
		t.Fatalf("offset = %d, want 0", got)
	}
}
