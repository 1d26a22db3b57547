package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/config"
	"github.com/Veraticus/recurring-spice/internal/engine"
	"github.com/Veraticus/recurring-spice/internal/report"
	"github.com/Veraticus/recurring-spice/internal/storage"
)

// RECUR_DATABASE_PATH maps to database.path.
var envKeyReplacer = strings.NewReplacer(".", "_")

func loadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine loads the configuration and returns an engine backed by storage.
// The returned function closes the database.
func initEngine(ctx context.Context) (*engine.Engine, config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	eng := engine.NewWithConfig(store, engine.Config{
		LookbackDays:            cfg.LookbackDays,
		SavingsWarningThreshold: cfg.SavingsWarningThreshold,
	})
	closer := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
	return eng, cfg, closer, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "o", string(report.FormatTable), "output format (table, json, yaml, csv)")
}

func formatFlag(cmd *cobra.Command) (report.Format, error) {
	value, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(value)
}

// expandFiles resolves glob patterns into file paths. Patterns that match
// nothing are kept when they name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(config.ExpandPath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", nil)
	}
	return files, nil
}

// parseDate accepts YYYY-MM-DD and returns midnight UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return t, nil
}
