// Package cli provides styled terminal output and line-based prompting.
package cli

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	infoColor    = lipgloss.Color("#95E1D3")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)

	// BoldStyle labels fields in pattern and subscription listings.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// TableHeaderStyle is used for report table headers.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
)

const (
	// RepeatIcon marks recurring patterns.
	RepeatIcon = "🔁"
	// MoneyIcon marks spend totals.
	MoneyIcon = "💸"
)

// FormatSuccess formats a success message.
func FormatSuccess(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatWarning formats a warning message.
func FormatWarning(message string) string {
	return warningStyle.Render("⚠️ " + message)
}

// FormatInfo formats an informational message.
func FormatInfo(message string) string {
	return infoStyle.Render("ℹ️ " + message)
}

// FormatTitle formats a section title with the repeat icon.
func FormatTitle(title string) string {
	return titleStyle.Render(RepeatIcon + " " + title)
}
