package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/csvimport"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/ofx"
	"github.com/Veraticus/recurring-spice/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX, QFX or CSV files",
		Long: `Import transactions exported from your bank into the current space.

OFX and QFX files carry their own account identifiers. CSV files need a
header row with date, description and amount columns, plus optional
merchant, currency and id columns; use --account to name the account.

Examples:
  # Import a single statement
  recur import ~/Downloads/chase_jan_2024.qfx

  # Import every statement in a directory
  recur import ~/Downloads/*.qfx ~/Downloads/*.csv --account checking`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("account", "csv", "account ID for CSV rows")

	return cmd
}

// sourceFor picks the parser for a file by extension.
func sourceFor(path, spaceID, accountID string) (service.TransactionSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return ofx.NewParser(spaceID), nil
	case ".csv":
		return csvimport.NewParser(spaceID, accountID), nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Base(path))
	}
}

func parseFile(cmd *cobra.Command, source service.TransactionSource, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return source.Parse(cmd.Context(), f)
}

func newImportBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	accountID, _ := cmd.Flags().GetString("account")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	eng, cfg, closeStore, err := initEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	slog.Info("Importing transaction files",
		"file_count", len(files),
		"space", cfg.Space,
		"dry_run", dryRun)

	var all []model.Transaction
	seen := make(map[string]bool)
	perFile := make(map[string]int, len(files))
	failed := 0

	bar := newImportBar(cmd.ErrOrStderr(), len(files))
	for _, path := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		source, err := sourceFor(path, cfg.Space, accountID)
		if err == nil {
			var txns []model.Transaction
			txns, err = parseFile(cmd, source, path)
			for _, txn := range txns {
				if seen[txn.Hash] {
					continue
				}
				seen[txn.Hash] = true
				all = append(all, txn)
				perFile[path]++
			}
		}
		if err != nil {
			slog.Error("Failed to import file", "file", path, "error", err)
			failed++
		}
		_ = bar.Add(1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("File import summary"))
	for _, path := range files {
		fmt.Fprintf(out, "  - %s: %d transactions\n", filepath.Base(path), perFile[path])
	}

	if len(all) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No transactions found"))
		return nil
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be imported", len(all))))
		return nil
	}

	inserted, err := eng.ImportTransactions(cmd.Context(), all)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions (%d already known)", inserted, len(all)-inserted)))
	if failed > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d file(s) could not be imported", failed)))
	}
	return nil
}
