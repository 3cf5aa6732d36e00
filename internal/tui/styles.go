package tui

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles derived from one Theme. Build them with
// NewStyles whenever the theme changes.
type Styles struct {
	Theme Theme

	Brand     lipgloss.Style
	Header    lipgloss.Style
	Info      lipgloss.Style
	Separator lipgloss.Style

	Tile      lipgloss.Style
	TileLabel lipgloss.Style
	TileValue lipgloss.Style

	Spinner lipgloss.Style
	Loading lipgloss.Style
	Error   lipgloss.Style
	ErrBox  lipgloss.Style
	Dim     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Lavender),
		Info: lipgloss.NewStyle().
			Foreground(t.Subtext),
		Separator: lipgloss.NewStyle().
			Foreground(t.Surface1),

		Tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Dim).
			Padding(0, 1),
		TileLabel: lipgloss.NewStyle().
			Foreground(t.Subtext),
		TileValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Teal),

		Spinner: lipgloss.NewStyle().
			Foreground(t.Accent),
		Loading: lipgloss.NewStyle().
			Foreground(t.Subtext),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Red),
		ErrBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Red).
			Padding(0, 1),
		Dim: lipgloss.NewStyle().
			Foreground(t.Dim),
	}
}
