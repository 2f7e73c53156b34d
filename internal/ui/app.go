package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/config"
	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/prefs"
	"github.com/mcpdash/mcpdash/internal/refresh"
	"github.com/mcpdash/mcpdash/internal/state"
)

// DefaultUIInterval is how often the UI re-reads the store.
const DefaultUIInterval = time.Second

// Options configures the UI.
type Options struct {
	Context       context.Context
	Refresher     *refresh.Refresher
	Mutator       api.Mutator
	Store         *state.Store // defaults to the refresher's store
	Config        *config.Config
	Logger        zerolog.Logger
	PollTick      time.Duration
	ToastDuration time.Duration
	ThemeName     string
	PrefsPath     string
}

// taskState holds the tasks panel filter, search and selection.
type taskState struct {
	filter    dashboard.TaskFilter
	search    textinput.Model
	searching bool
	selected  int
}

// logState holds the logs panel filter and search. The viewport always
// follows the newest line after a render.
type logState struct {
	filter    dashboard.LogFilter
	search    textinput.Model
	searching bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	refresher *refresh.Refresher
	mutator   api.Mutator
	store     *state.Store
	config    *config.Config
	log       zerolog.Logger
	keys      keyMap
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time

	// UI state
	theme  Theme
	tab    state.Tab
	width  int
	height int
	ready  bool

	// Data state
	snapshot   state.Snapshot
	failureGen uint64

	// Panel state
	tasks       taskState
	logs        logState
	logViewport viewport.Model
	scroll      map[state.Tab]int

	// Overlays
	showHelp bool
	modal    Modal

	// Toasts
	toasts        []toast
	nextToastID   int
	toastDuration time.Duration
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	store := opts.Store
	if store == nil && opts.Refresher != nil {
		store = opts.Refresher.Store()
	}
	if store == nil {
		store = &state.Store{}
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	toastDuration := opts.ToastDuration
	if toastDuration <= 0 && opts.Config != nil {
		toastDuration = opts.Config.ToastDuration
	}
	if toastDuration <= 0 {
		toastDuration = DefaultToastDuration
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	taskSearch := textinput.New()
	taskSearch.Prompt = "/"
	taskSearch.Placeholder = "search tasks"
	logSearch := textinput.New()
	logSearch.Prompt = "/"
	logSearch.Placeholder = "search logs"

	return Model{
		ctx:           ctx,
		refresher:     opts.Refresher,
		mutator:       opts.Mutator,
		store:         store,
		config:        opts.Config,
		log:           opts.Logger.With().Str("component", "ui").Logger(),
		keys:          DefaultKeyMap(),
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		now:           time.Now,
		theme:         GetTheme(opts.ThemeName),
		tab:           store.Active(),
		snapshot:      store.Snapshot(),
		tasks:         taskState{search: taskSearch},
		logs:          logState{search: logSearch},
		logViewport:   viewport.New(0, 0),
		scroll:        make(map[state.Tab]int),
		toastDuration: toastDuration,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		fetchSnapshotCmd(m.store),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		cmds := m.applySnapshot(state.Snapshot(msg))
		return m, tea.Batch(cmds...)

	case mutationMsg:
		cmd := m.handleMutation(msg)
		return m, cmd

	case toastMsg:
		cmd := m.pushToast(msg.kind, msg.text)
		return m, cmd

	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	}

	// Cursor blink and other input messages
	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m *Model) applySnapshot(snap state.Snapshot) []tea.Cmd {
	logsChanged := !snap.Panel(state.PanelLogs).LastUpdated.Equal(m.snapshot.Panel(state.PanelLogs).LastUpdated)
	m.snapshot = snap
	cmds := m.failureToasts(snap)
	m.clampTaskSelection()
	if logsChanged {
		m.refreshLogViewport()
	}
	return cmds
}

// handleKey routes keyboard input. Overlays and text inputs get the key
// first so typing never triggers global shortcuts.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var (
			cmd  tea.Cmd
			done bool
		)
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		return m, cmd
	}

	if m.tab == state.TabTasks && m.tasks.searching {
		return m.handleTaskSearchInput(msg)
	}
	if m.tab == state.TabLogs && m.logs.searching {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refreshLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		cmd := m.switchTab(m.tab.Next())
		return m, cmd

	case key.Matches(msg, m.keys.PrevTab):
		cmd := m.switchTab(m.tab.Prev())
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshTabCmd(m.tab)
		return m, cmd
	}

	for i, binding := range m.keys.tabBindings() {
		if key.Matches(msg, binding) {
			cmd := m.switchTab(state.Tabs[i])
			return m, cmd
		}
	}

	switch m.tab {
	case state.TabTasks:
		return m.handleTasksKey(msg)
	case state.TabLogs:
		return m.handleLogsKey(msg)
	case state.TabCalendar:
		if key.Matches(msg, m.keys.New) {
			m.openEventForm()
			return m, nil
		}
	case state.TabNotes:
		if key.Matches(msg, m.keys.New) {
			m.openNoteForm()
			return m, nil
		}
	}
	m.handleScrollKey(msg)
	return m, nil
}

// switchTab records the new active tab and fetches what it shows right away
// instead of waiting for the next poll.
func (m *Model) switchTab(tab state.Tab) tea.Cmd {
	if tab == m.tab {
		return nil
	}
	m.tab = tab
	m.store.SetActive(tab)
	m.savePrefs()
	m.updateLogViewport()
	return m.refreshTabCmd(tab)
}

// handleScrollKey scrolls the read-only panels. The stored offset never
// passes the last full page.
func (m *Model) handleScrollKey(msg tea.KeyMsg) {
	limit := m.maxScroll(m.tab)
	offset := min(m.scroll[m.tab], limit)
	switch {
	case key.Matches(msg, m.keys.Down):
		offset++
	case key.Matches(msg, m.keys.Up):
		offset--
	case key.Matches(msg, m.keys.Top):
		offset = 0
	default:
		return
	}
	m.scroll[m.tab] = min(max(offset, 0), limit)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Tab: m.tab.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("failed to save preferences")
	}
}

// renderMain renders header, tab bar, the active panel, toasts and the
// command bar.
func (m Model) renderMain() string {
	toasts := m.renderToasts()

	parts := []string{
		m.renderHeader(),
		m.renderTabBar(),
		m.renderContent(m.panelHeight()),
	}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderCommandBar())

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Render(strings.Join(parts, "\n"))
}

// panelHeight is the content height minus whatever the toasts take.
func (m Model) panelHeight() int {
	toastLines := 0
	if toasts := m.renderToasts(); toasts != "" {
		toastLines = strings.Count(toasts, "\n") + 1
	}
	return max(m.contentHeight()-toastLines, 3)
}

func (m Model) renderContent(height int) string {
	switch m.tab {
	case state.TabTasks:
		return m.renderTasks(height)
	case state.TabCalendar:
		return m.renderCalendar(height)
	case state.TabNotes:
		return m.renderNotes(height)
	case state.TabLogs:
		return m.renderLogs(height)
	case state.TabConnections:
		return m.renderConnections(height)
	default:
		return m.renderDashboard(height)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshTabCmd fetches every panel a tab shows, then hands the UI a fresh
// snapshot. Failures are recorded in the store and toasted from there.
func (m Model) refreshTabCmd(tab state.Tab) tea.Cmd {
	if m.refresher == nil {
		return fetchSnapshotCmd(m.store)
	}
	ctx, refresher, store := m.ctx, m.refresher, m.store
	return func() tea.Msg {
		_ = refresher.Tab(ctx, tab)
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
