package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
)

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Link new transactions to confirmed patterns",
		Long: `Walk the unlinked transactions in the current space, oldest first, and
attach each one to the confirmed pattern it belongs to. Matched patterns
advance their occurrence count and next expected date.`,
		Args: cobra.NoArgs,
		RunE: runMatch,
	}
}

func runMatch(cmd *cobra.Command, _ []string) error {
	eng, cfg, closeStore, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out, "Matching", "Run 'recur match' again to continue; matched transactions are kept.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	stats, err := eng.MatchPending(ctx, cfg.Space)
	if err != nil {
		if handler.WasInterrupted() && errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Matched %d of %d transactions before stopping", stats.Matched, stats.Examined)))
			return nil
		}
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Matched %d of %d unlinked transactions", stats.Matched, stats.Examined)))
	return nil
}
