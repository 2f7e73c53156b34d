package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcpdash/mcpdash/internal/state"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

type toastKind string

const (
	toastSuccess toastKind = "success"
	toastError   toastKind = "error"
	toastWarning toastKind = "warning"
	toastInfo    toastKind = "info"
)

func (k toastKind) icon() string {
	switch k {
	case toastSuccess:
		return "✅"
	case toastError:
		return "❌"
	case toastWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

type toast struct {
	id      int
	kind    toastKind
	message string
	created time.Time
}

// toastMsg asks the model to show a toast.
type toastMsg struct {
	kind toastKind
	text string
}

// toastExpiredMsg removes the toast with the given id.
type toastExpiredMsg struct {
	id int
}

func showToastCmd(kind toastKind, text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{kind: kind, text: text}
	}
}

// pushToast queues a toast and schedules its removal. Toasts are only ever
// dismissed by their timer.
func (m *Model) pushToast(kind toastKind, text string) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{
		id:      id,
		kind:    kind,
		message: text,
		created: m.now(),
	})
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// failureToasts raises one toast for every panel failure recorded since the
// last snapshot. Status failures drive the header indicator instead.
func (m *Model) failureToasts(snap state.Snapshot) []tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range snap.FailuresSince(m.failureGen) {
		if f.Panel == state.PanelStatus {
			continue
		}
		cmds = append(cmds, m.pushToast(toastError, loadFailureText(f.Panel)))
	}
	if snap.FailureGen > m.failureGen {
		m.failureGen = snap.FailureGen
	}
	return cmds
}

func loadFailureText(p state.Panel) string {
	return "Failed to load " + p.String()
}

// renderToasts stacks the live toasts, newest last, right aligned.
func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		color := m.theme.StatusColors[string(t.kind)]
		if color == "" {
			color = m.theme.Info
		}
		box := lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Foreground(lipgloss.Color(m.theme.Text)).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color(color)).
			Padding(0, 1)
		text := t.kind.icon() + " " + truncate(t.message, max(m.width/2, 20))
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Right,
			box.Render(text),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background))))
	}
	return strings.Join(lines, "\n")
}
