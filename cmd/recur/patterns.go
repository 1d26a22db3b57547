package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/merchant"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/report"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage stored recurring patterns",
		Long:  `List stored recurring patterns and move them between detected, confirmed, paused and dismissed.`,
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternStatusCmd("confirm", "Confirm a pattern so new transactions are matched to it", model.PatternConfirmed))
	cmd.AddCommand(patternStatusCmd("dismiss", "Dismiss a pattern", model.PatternDismissed))
	cmd.AddCommand(patternStatusCmd("pause", "Pause matching for a confirmed pattern", model.PatternPaused))
	cmd.AddCommand(patternStatusCmd("resume", "Resume matching for a paused pattern", model.PatternConfirmed))

	return cmd
}

func patternsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}

			rawStatuses, _ := cmd.Flags().GetStringSlice("status")
			statuses := make([]model.PatternStatus, 0, len(rawStatuses))
			for _, raw := range rawStatuses {
				status, parseErr := model.ParsePatternStatus(raw)
				if parseErr != nil {
					return common.NewUserError(fmt.Sprintf("unknown status %q", raw), parseErr)
				}
				statuses = append(statuses, status)
			}

			eng, cfg, closeStore, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			patterns, err := eng.Patterns(cmd.Context(), cfg.Space, statuses...)
			if err != nil {
				return err
			}
			if query, _ := cmd.Flags().GetString("merchant"); query != "" {
				filtered := patterns[:0]
				for _, p := range patterns {
					if merchant.ContainsFold(p.MerchantName, query) {
						filtered = append(filtered, p)
					}
				}
				patterns = filtered
			}
			if len(patterns) == 0 && format == report.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No patterns stored"))
				return nil
			}
			return report.WritePatterns(cmd.OutOrStdout(), format, patterns)
		},
	}

	cmd.Flags().StringSlice("status", nil, "filter by status (detected, confirmed, paused, dismissed)")
	cmd.Flags().String("merchant", "", "filter by merchant name, ignoring case and accents")
	addFormatFlag(cmd)

	return cmd
}

func patternStatusCmd(use, short string, status model.PatternStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <pattern-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := resolvePatternID(cmd.Context(), eng, cfg.Space, args[0])
			if err != nil {
				return err
			}

			pattern, err := eng.SetPatternStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("%s is now %s", pattern.MerchantName, pattern.Status)))
			return nil
		},
	}
}
