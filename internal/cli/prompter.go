package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// Prompter reviews detected patterns with plain line prompts. It is the
// fallback when the terminal cannot run the full-screen review.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter over the given streams, defaulting to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Compile-time interface check.
var _ engine.Reviewer = (*Prompter)(nil)

// ReviewPatterns asks about each pattern in turn. Answering q, or reaching the
// end of input, stops early; patterns not yet answered are left undecided.
func (p *Prompter) ReviewPatterns(ctx context.Context, patterns []model.DetectedPattern) ([]engine.Decision, error) {
	decisions := make([]engine.Decision, 0, len(patterns))

	for i, pattern := range patterns {
		header := BoldStyle.Render(fmt.Sprintf("Pattern %d of %d", i+1, len(patterns)))
		if _, err := fmt.Fprintf(p.writer, "\n%s\n%s\n", header, FormatPattern(pattern)); err != nil {
			return decisions, fmt.Errorf("failed to write pattern details: %w", err)
		}

		status, quit, err := p.askStatus(ctx)
		if errors.Is(err, io.EOF) || quit {
			return decisions, nil
		}
		if err != nil {
			return decisions, err
		}
		decisions = append(decisions, engine.Decision{Pattern: pattern, Status: status})
	}

	return decisions, nil
}

// askStatus prompts until it gets a recognizable answer.
func (p *Prompter) askStatus(ctx context.Context) (model.PatternStatus, bool, error) {
	for {
		if _, err := fmt.Fprint(p.writer, BoldStyle.Render("[y] confirm  [n] dismiss  [s] skip  [q] quit → ")); err != nil {
			return "", false, fmt.Errorf("failed to write prompt: %w", err)
		}
		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return model.PatternConfirmed, false, nil
		case "n", "no":
			return model.PatternDismissed, false, nil
		case "s", "skip", "":
			return "", false, nil
		case "q", "quit":
			return "", true, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Unknown choice %q", answer))); err != nil {
			return "", false, fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// FormatPattern renders the details of a detected pattern.
func FormatPattern(p model.DetectedPattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Merchant:"), p.MerchantName)
	fmt.Fprintf(&b, "%s %s %s\n", BoldStyle.Render("Amount:  "), common.FormatMoney(p.AverageAmount), p.Currency)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Every:   "), p.SuggestedFrequency)
	fmt.Fprintf(&b, "%s %d (%s to %s)\n", BoldStyle.Render("Seen:    "), p.OccurrenceCount,
		p.FirstOccurrence.Format("2006-01-02"), p.LastOccurrence.Format("2006-01-02"))
	fmt.Fprintf(&b, "%s %s", BoldStyle.Render("Confidence:"), formatConfidence(p.Confidence))
	return b.String()
}

// formatConfidence renders a 0..1 confidence as a colored percentage.
func formatConfidence(confidence float64) string {
	text := fmt.Sprintf("%.0f%%", confidence*100)
	switch {
	case confidence >= 0.85:
		return successStyle.Render(text)
	case confidence >= 0.7:
		return infoStyle.Render(text)
	default:
		return warningStyle.Render(text)
	}
}
