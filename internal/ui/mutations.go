package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcpdash/mcpdash/internal/api"
	"github.com/mcpdash/mcpdash/internal/dashboard"
	"github.com/mcpdash/mcpdash/internal/state"
)

const mutationTimeout = 10 * time.Second

// mutationMsg reports the outcome of a write request. On success the
// affected panel has already been re-fetched into the store.
type mutationMsg struct {
	op      string
	panel   state.Panel
	success string
	failure string
	err     error
}

// mutate runs fn against the backend and, when it succeeds, re-fetches the
// panel it changed along with the status counters. Nothing is applied
// locally before the re-fetch.
func (m Model) mutate(op string, panel state.Panel, success, failure string, fn func(context.Context, api.Mutator) error) tea.Cmd {
	ctx := m.ctx
	mutator := m.mutator
	refresher := m.refresher
	return func() tea.Msg {
		msg := mutationMsg{op: op, panel: panel, success: success, failure: failure}
		if mutator == nil {
			msg.err = fmt.Errorf("%s: backend is read-only", op)
			return msg
		}
		callCtx, cancel := context.WithTimeout(ctx, mutationTimeout)
		defer cancel()
		if err := fn(callCtx, mutator); err != nil {
			msg.err = fmt.Errorf("%s: %w", op, err)
			return msg
		}
		if refresher != nil {
			_ = refresher.Panel(ctx, panel)
			_ = refresher.Status(ctx)
		}
		return msg
	}
}

func (m Model) completeTaskCmd(id int64) tea.Cmd {
	return m.mutate("complete task", state.PanelTasks, "Task completed! 🎉", "Failed to complete task",
		func(ctx context.Context, mut api.Mutator) error {
			return mut.CompleteTask(ctx, id)
		})
}

func (m Model) deleteTaskCmd(id int64) tea.Cmd {
	return m.mutate("delete task", state.PanelTasks, "Task deleted", "Failed to delete task",
		func(ctx context.Context, mut api.Mutator) error {
			return mut.DeleteTask(ctx, id)
		})
}

func (m Model) createTaskCmd(task api.NewTask) tea.Cmd {
	return m.mutate("create task", state.PanelTasks, "Task created successfully! ✅", "Failed to create task",
		func(ctx context.Context, mut api.Mutator) error {
			return mut.CreateTask(ctx, task)
		})
}

func (m Model) createNoteCmd(note api.NewNote) tea.Cmd {
	return m.mutate("create note", state.PanelNotes, "Note created successfully! ✅", "Failed to create note",
		func(ctx context.Context, mut api.Mutator) error {
			return mut.CreateNote(ctx, note)
		})
}

func (m *Model) handleMutation(msg mutationMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error().
			Str("op", msg.op).
			Str("panel", msg.panel.String()).
			Err(msg.err).
			Msg("mutation failed")
		return m.pushToast(toastError, msg.failure)
	}
	m.log.Info().
		Str("op", msg.op).
		Str("panel", msg.panel.String()).
		Msg("mutation applied")
	return tea.Batch(m.pushToast(toastSuccess, msg.success), fetchSnapshotCmd(m.store))
}

// Forms

func (m *Model) openTaskForm() {
	priority := newFormField("Priority", "high / medium / low", false, 10)
	priority.input.SetValue(api.PriorityMedium)
	due := newFormField("Due date", "YYYY-MM-DD", false, 10)
	due.validate = func(v string) error {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return errors.New("due date must be YYYY-MM-DD")
		}
		return nil
	}
	fields := []formField{
		newFormField("Title", "What needs doing?", true, 200),
		newFormField("Description", "", false, 1000),
		priority,
		due,
	}
	create := m.createTaskCmd
	m.modal = newFormModal("New Task", fields, func(v []string) tea.Cmd {
		return create(api.NewTask{
			Title:       v[0],
			Description: v[1],
			Priority:    dashboard.NormalizePriority(v[2]),
			DueDate:     v[3],
		})
	})
}

func (m *Model) openNoteForm() {
	fields := []formField{
		newFormField("Title", "", true, 200),
		newFormField("Content", "", false, 5000),
		newFormField("Tags", "comma, separated", false, 200),
	}
	create := m.createNoteCmd
	m.modal = newFormModal("New Note", fields, func(v []string) tea.Cmd {
		return create(api.NewNote{Title: v[0], Content: v[1], Tags: v[2]})
	})
}

// openEventForm shows the event form. Events cannot be created through the
// backend yet, so submitting only raises an info toast.
func (m *Model) openEventForm() {
	fields := []formField{
		newFormField("Title", "", true, 200),
		newFormField("Start", "YYYY-MM-DD HH:MM", false, 16),
		newFormField("Description", "", false, 1000),
	}
	m.modal = newFormModal("New Event", fields, func([]string) tea.Cmd {
		return showToastCmd(toastInfo, "Feature in development")
	})
}

func (m *Model) confirmDelete(task api.Task) {
	m.modal = &confirmModal{
		prompt: fmt.Sprintf("Delete task %q?", truncate(task.Title, 30)),
		onYes:  m.deleteTaskCmd(task.ID),
	}
}
