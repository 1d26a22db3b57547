package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/tui"
	"github.com/Veraticus/recurring-spice/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review detected recurring patterns interactively",
		Long: `Detect recurring patterns and decide, one at a time, which are real.

Confirmed patterns are matched against new transactions and become
subscription candidates. Dismissed patterns are remembered so they do not
come back; skipped ones are offered again on the next review.`,
		Args: cobra.NoArgs,
		RunE: runReview,
	}

	cmd.Flags().Bool("plain", false, "Use line prompts instead of the full-screen interface")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin)")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	plain, _ := cmd.Flags().GetBool("plain")
	themeName, _ := cmd.Flags().GetString("theme")

	eng, cfg, closeStore, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	var reviewer engine.Reviewer
	if plain {
		reviewer = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	} else {
		reviewer = tui.NewReviewer(themes.ByName(themeName))
	}

	out := cmd.OutOrStdout()
	stats, err := eng.Review(cmd.Context(), cfg.Space, reviewer)
	if errors.Is(err, tui.ErrReviewAborted) || errors.Is(err, cli.ErrInputCancelled) {
		fmt.Fprintln(out, cli.FormatWarning("Review aborted, nothing was saved"))
		return nil
	}
	if err != nil {
		return err
	}

	if stats.Confirmed+stats.Dismissed+stats.Skipped+stats.Stale == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No new recurring patterns to review"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Review complete: %d confirmed, %d dismissed, %d skipped",
		stats.Confirmed, stats.Dismissed, stats.Skipped)))
	if stats.Stale > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d pattern(s) changed during review and were not saved; run 'recur review' again", stats.Stale)))
	}
	if stats.Confirmed > 0 {
		fmt.Fprintln(out, cli.FormatInfo("Run 'recur subscriptions classify' to build your subscription list"))
	}
	return nil
}
