package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Badge colors are derived from the base colors
// so every palette covers the same keys.
type Theme struct {
	Name string

	Background string // behind everything
	Surface    string // header and command bar
	SurfaceAlt string // unfocused boxes, toasts
	FocusBg    string // the active panel

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors maps task priorities and states, log classes, connection
	// states and toast kinds to a color.
	StatusColors map[string]string
}

func (t Theme) withBadges() Theme {
	t.StatusColors = map[string]string{
		"high":         t.Danger,
		"medium":       t.Warning,
		"low":          t.Success,
		"pending":      t.Faint,
		"completed":    t.Success,
		"error":        t.Danger,
		"warning":      t.Warning,
		"success":      t.Success,
		"info":         t.Info,
		"active":       t.Success,
		"disconnected": t.Faint,
	}
	return t
}

// Styles is the set of lipgloss styles the views draw with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// Styles builds the styles for t.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bar := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(color)).
			Padding(0, 1)
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: bar(t.Text),
		Footer: bar(t.Muted),
		Logo:   fg(t.Warning).Bold(true),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// StatusStyle returns a filled badge for key, muted when the key is unknown.
func (s Styles) StatusStyle(key string) lipgloss.Style {
	color := s.statusColors[key]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// Fg returns a foreground style for a badge key, falling back to the
// theme text color.
func (s Styles) Fg(key string) lipgloss.Style {
	color, ok := s.statusColors[key]
	if !ok {
		return s.Text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// WithBackground paints every text style onto bgColor so segments joined on
// a colored bar do not punch holes through it.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, style := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo,
	} {
		*style = style.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": Theme{
		Name: "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
	}.withBadges(),

	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": Theme{
		Name: "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
	}.withBadges(),

	// Tailwind slate and sky.
	"Slate": Theme{
		Name: "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
	}.withBadges(),
}

// GetTheme returns the named theme, Nightfox when the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}
