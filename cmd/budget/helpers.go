package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/config"
	"github.com/Veraticus/weekly-budget/internal/csvio"
	"github.com/Veraticus/weekly-budget/internal/service"
	"github.com/Veraticus/weekly-budget/internal/sheets"
	"github.com/Veraticus/weekly-budget/internal/storage"
	"github.com/spf13/viper"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Configuration is invalid", err)
	}
	return cfg, nil
}

// openArchive opens and migrates the run archive. It returns nil when no
// archive path is configured.
func openArchive(ctx context.Context, path string) (*storage.SQLiteStorage, error) {
	if path == "" {
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}
	return store, nil
}

// buildSinks returns the CSV directory writer plus the Sheets writer when enabled.
func buildSinks(ctx context.Context, cfg *config.Config) ([]service.ReportSink, error) {
	sinks := []service.ReportSink{csvio.NewDirWriter(cfg.OutputDir)}

	if cfg.Sheets != nil {
		writer, err := sheets.NewWriter(ctx, *cfg.Sheets, slog.Default())
		if err != nil {
			return nil, common.NewUserError("Google Sheets is enabled but could not be set up", err)
		}
		sinks = append(sinks, writer)
	}

	return sinks, nil
}

// resolveInputs returns args, or the configured default input when none are given.
func resolveInputs(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if input := cfg.DefaultInput(); input != "" {
		return []string{input}, nil
	}
	return nil, common.NewUserError("No input file given",
		fmt.Errorf("%w: pass a file or set input.filename", common.ErrMissingConfig))
}
