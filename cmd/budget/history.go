package main

import (
	"fmt"

	"github.com/Veraticus/weekly-budget/internal/cli"
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/Veraticus/weekly-budget/internal/storage"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived report runs",
		Long: `List the runs recorded in the archive (archive.path), newest first.
With --weeks each run is followed by the weekly totals it produced.`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", storage.DefaultRunLimit, "number of runs to show")
	cmd.Flags().BoolP("weeks", "w", false, "show weekly totals for each run")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	showWeeks, _ := cmd.Flags().GetBool("weeks")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ArchivePath == "" {
		return common.NewUserError("No archive configured",
			fmt.Errorf("%w: set archive.path to record runs", common.ErrMissingConfig))
	}

	ctx := cmd.Context()
	archive, err := openArchive(ctx, cfg.ArchivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	weeks := make(map[string][]model.WeeklySummary)
	if showWeeks {
		for _, run := range runs {
			summaries, err := archive.GetWeeklySummaries(ctx, run.ID)
			if err != nil {
				return err
			}
			weeks[run.ID] = summaries
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Report history"))
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderHistory(runs, weeks, cfg.Currency))
	return nil
}
