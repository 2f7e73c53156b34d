package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width for the two-column dashboard.
	LayoutSplitWidth = 120
)

// chromeHeight is the header, tab bar and command bar.
const chromeHeight = 3

// BgStyle renders text so that every cell, spaces included, carries the
// same background. Without it the reset codes lipgloss emits between styled
// segments leave gaps in the background color.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle creates a background helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render applies style with the helper's background to every word of text.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	result := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			result = append(result, "")
			continue
		}
		result = append(result, wordStyle.Render(w))
	}
	return strings.Join(result, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Sep returns a styled separator.
func (b BgStyle) Sep(sep string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(sep)
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// contentHeight is the space left for the active panel.
func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use the focus border and
// background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// renderEmpty centers one or two muted lines, used for empty collections.
func (m Model) renderEmpty(bgColor string, width int, lines ...string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	out := make([]string, 0, len(lines)+1)
	out = append(out, "")
	for i, line := range lines {
		style := styles.MutedText
		if i == 0 {
			style = styles.Text.Bold(true)
		}
		out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center, bg.Render(line, style),
			lipgloss.WithWhitespaceBackground(bg.bg)))
	}
	return strings.Join(out, "\n")
}
