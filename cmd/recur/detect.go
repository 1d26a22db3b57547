package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/report"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring payment patterns",
		Long: `Scan the transactions in the current space for charges that repeat
on a regular schedule. Nothing is stored unless --save is given, in which
case the candidates are saved as detected patterns for later review.`,
		Args: cobra.NoArgs,
		RunE: runDetect,
	}

	cmd.Flags().Bool("save", false, "Save detected patterns")
	addFormatFlag(cmd)

	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")

	eng, cfg, closeStore, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	detected, err := eng.DetectPatterns(cmd.Context(), cfg.Space)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(detected) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No recurring patterns found"))
		return nil
	}

	if err := report.WriteDetected(out, format, detected); err != nil {
		return err
	}

	if !save {
		return nil
	}

	saved, err := eng.SaveDetected(cmd.Context(), cfg.Space, detected)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Saved %d detected patterns", len(saved))))
	return nil
}
