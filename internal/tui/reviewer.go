package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/tui/themes"
)

// ErrReviewAborted is returned when the user abandons the review with ctrl+c.
var ErrReviewAborted = errors.New("review aborted")

// Reviewer implements engine.Reviewer with a full-screen bubbletea program.
type Reviewer struct {
	theme   themes.Theme
	options []tea.ProgramOption
}

// Compile-time interface check.
var _ engine.Reviewer = (*Reviewer)(nil)

// NewReviewer creates a reviewer. Extra program options are appended to the
// defaults, which run in the alternate screen.
func NewReviewer(theme themes.Theme, options ...tea.ProgramOption) *Reviewer {
	return &Reviewer{theme: theme, options: options}
}

// ReviewPatterns runs the review screen until the user finishes.
func (r *Reviewer) ReviewPatterns(ctx context.Context, patterns []model.DetectedPattern) ([]engine.Decision, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, r.options...)
	program := tea.NewProgram(NewModel(patterns, r.theme), opts...)

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to run review: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Aborted() {
		return nil, ErrReviewAborted
	}
	return m.Decisions(), nil
}
