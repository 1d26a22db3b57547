// Package tui provides the full-screen review of detected recurring patterns.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/tui/themes"
)

const progressWidth = 30

// Model is the bubbletea model for reviewing detected patterns one at a time.
type Model struct {
	theme    themes.Theme
	keys     KeyMap
	help     help.Model
	patterns []model.DetectedPattern
	verdicts []model.PatternStatus
	answered []bool
	cursor   int
	width    int
	done     bool
	aborted  bool
}

// NewModel creates a review model over patterns.
func NewModel(patterns []model.DetectedPattern, theme themes.Theme) Model {
	return Model{
		theme:    theme,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		patterns: patterns,
		verdicts: make([]model.PatternStatus, len(patterns)),
		answered: make([]bool, len(patterns)),
		done:     len(patterns) == 0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.aborted = true
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		return m.decide(model.PatternConfirmed)

	case key.Matches(msg, m.keys.Dismiss):
		return m.decide(model.PatternDismissed)

	case key.Matches(msg, m.keys.Skip):
		return m.decide("")
	}
	return m, nil
}

// decide records a verdict for the current pattern and advances.
func (m Model) decide(status model.PatternStatus) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	// Slices are shared between model copies; clone before writing.
	m.verdicts = append([]model.PatternStatus(nil), m.verdicts...)
	m.answered = append([]bool(nil), m.answered...)

	m.verdicts[m.cursor] = status
	m.answered[m.cursor] = true
	m.cursor++
	if m.cursor >= len(m.patterns) {
		m.cursor = len(m.patterns) - 1
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// Done reports whether the review has finished.
func (m Model) Done() bool {
	return m.done
}

// Aborted reports whether the user abandoned the review.
func (m Model) Aborted() bool {
	return m.aborted
}

// Decisions returns a decision for every pattern the user answered, in
// pattern order. Skipped patterns carry an empty status.
func (m Model) Decisions() []engine.Decision {
	if m.aborted {
		return nil
	}
	var out []engine.Decision
	for i, p := range m.patterns {
		if !m.answered[i] {
			continue
		}
		out = append(out, engine.Decision{Pattern: p, Status: m.verdicts[i]})
	}
	return out
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || len(m.patterns) == 0 {
		return ""
	}

	p := m.patterns[m.cursor]
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Review recurring payments"))
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Card.Render(m.renderPattern(p)))
	b.WriteString("\n")
	if m.answered[m.cursor] {
		b.WriteString(m.renderVerdict(m.verdicts[m.cursor]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderProgress() string {
	total := len(m.patterns)
	filled := progressWidth * m.cursor / total
	bar := m.theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", progressWidth-filled))
	return fmt.Sprintf("%s %s", bar, m.theme.Subtitle.Render(fmt.Sprintf("%d of %d", m.cursor+1, total)))
}

func (m Model) renderPattern(p model.DetectedPattern) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.Muted.Width(12).Render(label),
			m.theme.Bold.Render(value))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row("Merchant", p.MerchantName),
		row("Amount", common.FormatMoney(p.AverageAmount)+" "+p.Currency),
		row("Every", string(p.SuggestedFrequency)),
		row("Seen", fmt.Sprintf("%d times, %s to %s", p.OccurrenceCount,
			p.FirstOccurrence.Format("2006-01-02"), p.LastOccurrence.Format("2006-01-02"))),
		row("Variance", fmt.Sprintf("%.0f%%", p.AmountVariance*100)),
		row("Confidence", fmt.Sprintf("%.0f%%", p.Confidence*100)),
	)
}

func (m Model) renderVerdict(status model.PatternStatus) string {
	switch status {
	case model.PatternConfirmed:
		return m.theme.Confirmed.Render("✓ confirmed")
	case model.PatternDismissed:
		return m.theme.Dismissed.Render("✗ dismissed")
	default:
		return m.theme.Skipped.Render("skipped")
	}
}
