package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/rechenwerk/internal/calc/session"
)

// Palette is the set of colours a theme is built from.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Bg        lipgloss.Color
	Fg        lipgloss.Color
	Bar       lipgloss.Color
}

var (
	darkPalette = Palette{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#10B981"),
		Accent:    lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Muted:     lipgloss.Color("#6B7280"),
		Bg:        lipgloss.Color("#1F2937"),
		Fg:        lipgloss.Color("#F9FAFB"),
		Bar:       lipgloss.Color("#374151"),
	}

	lightPalette = Palette{
		Primary:   lipgloss.Color("#5B21B6"),
		Secondary: lipgloss.Color("#047857"),
		Accent:    lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Muted:     lipgloss.Color("#6B7280"),
		Bg:        lipgloss.Color("#F9FAFB"),
		Fg:        lipgloss.Color("#111827"),
		Bar:       lipgloss.Color("#E5E7EB"),
	}
)

// Styles holds every lipgloss style the UI renders with.
type Styles struct {
	Theme string

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Box          lipgloss.Style
	FocusedBox   lipgloss.Style
	Expression   lipgloss.Style
	Display      lipgloss.Style
	DisplaySmall lipgloss.Style
	Indicator    lipgloss.Style
	Result       lipgloss.Style
	Error        lipgloss.Style
	StatusBar    lipgloss.Style
	HistoryItem  lipgloss.Style
	Selected     lipgloss.Style
	Help         lipgloss.Style
	Input        lipgloss.Style
	Tab          lipgloss.Style
	ActiveTab    lipgloss.Style
}

// NewStyles builds the styles for a theme. Unknown themes fall back to dark.
func NewStyles(theme string) Styles {
	p := darkPalette
	if theme == session.ThemeLight {
		p = lightPalette
	} else {
		theme = session.ThemeDark
	}

	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted).
			Padding(1, 2),

		FocusedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),

		Expression: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(displayWidth).
			Align(lipgloss.Right),

		Display: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Background(p.Bg).
			Width(displayWidth).
			Align(lipgloss.Right).
			Padding(0, 1),

		DisplaySmall: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.Bg).
			Width(displayWidth).
			Align(lipgloss.Right).
			Padding(0, 1),

		Indicator: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Result: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(p.Error),

		StatusBar: lipgloss.NewStyle().
			Background(p.Bar).
			Foreground(p.Fg).
			Padding(0, 1),

		HistoryItem: lipgloss.NewStyle().
			PaddingLeft(2),

		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			PaddingLeft(2),

		Help: lipgloss.NewStyle().
			Foreground(p.Muted),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(p.Muted),

		ActiveTab: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(p.Primary).
			Bold(true).
			Underline(true),
	}
}

// RenderError prefixes msg with "Fehler: ".
func (s Styles) RenderError(msg string) string {
	return s.Error.Render("Fehler: " + msg)
}

func (s Styles) RenderHelp(help string) string {
	return s.Help.Render(help)
}
