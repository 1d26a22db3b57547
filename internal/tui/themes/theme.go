// Package themes defines color themes for the review screen.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Card          lipgloss.Style
	ProgressFull  lipgloss.Style
	ProgressEmpty lipgloss.Style
	Confirmed     lipgloss.Style
	Dismissed     lipgloss.Style
	Skipped       lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

func newTheme(primary, foreground, muted, border, success, errColor lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Border:  border,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		ProgressFull: lipgloss.NewStyle().
			Foreground(primary),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(border),
		Confirmed: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		Dismissed: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		Skipped: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#ef4444"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
