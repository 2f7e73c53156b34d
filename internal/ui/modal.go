package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

const modalWidth = 56

// formField is one labelled input of a form.
type formField struct {
	label    string
	required bool
	validate func(string) error
	input    textinput.Model
}

func newFormField(label, placeholder string, required bool, limit int) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = modalWidth - 8
	return formField{label: label, required: required, input: in}
}

// formModal collects values for a create action. Submit receives the raw
// values in field order and returns the command that performs the action.
type formModal struct {
	title   string
	fields  []formField
	focus   int
	problem string
	submit  func(values []string) tea.Cmd
}

func newFormModal(title string, fields []formField, submit func([]string) tea.Cmd) *formModal {
	f := &formModal{title: title, fields: fields, submit: submit}
	f.focusField(0)
	return f
}

func (f *formModal) focusField(i int) {
	for idx := range f.fields {
		f.fields[idx].input.Blur()
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModal) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

// Update handles field navigation and submission. Enter advances to the next
// field and submits from the last one.
func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return f, cmd, false
	}

	switch {
	case keyMsg.String() == "esc":
		return f, nil, true
	case key.Matches(keyMsg, keys.NextField):
		f.focusField(f.focus + 1)
		return f, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		f.focusField(f.focus - 1)
		return f, nil, false
	case key.Matches(keyMsg, keys.Confirm):
		if f.focus < len(f.fields)-1 {
			f.focusField(f.focus + 1)
			return f, nil, false
		}
		values := f.values()
		for i, field := range f.fields {
			if field.required && values[i] == "" {
				f.problem = field.label + " is required"
				f.focusField(i)
				return f, nil, false
			}
			if field.validate != nil && values[i] != "" {
				if err := field.validate(values[i]); err != nil {
					f.problem = err.Error()
					f.focusField(i)
					return f, nil, false
				}
			}
		}
		return f, f.submit(values), true
	}

	f.problem = ""
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(keyMsg)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		label := field.label
		if field.required {
			label += " *"
		}
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n\n")
	}

	if f.problem != "" {
		b.WriteString(styles.DangerText.Render(f.problem))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("tab next · enter save · esc cancel"))

	return placeModal(theme, width, height, b.String())
}

// confirmModal asks a yes/no question before running onYes.
type confirmModal struct {
	prompt string
	onYes  tea.Cmd
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		return c, c.onYes, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := styles.Text.Bold(true).Render(c.prompt) + "\n\n" +
		styles.WarningText.Render("y") + styles.MutedText.Render(" yes   ") +
		styles.WarningText.Render("n") + styles.MutedText.Render(" no")
	return placeModal(theme, width, height, content)
}

func placeModal(theme Theme, width, height int, content string) string {
	return placeBox(theme, width, height, modalWidth, content)
}

// placeBox centers content in a rounded box of boxWidth columns.
func placeBox(theme Theme, width, height, boxWidth int, content string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
