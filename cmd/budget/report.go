package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/weekly-budget/internal/cli"
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Write one report per week for each input file",
		Long: `Split each input file into weeks and write one report per week.

Reports are written as <output dir>/<YYYYMMDD>.csv, named after the first
day of the week, and to Google Sheets when sheets.enabled is set. With no
arguments the configured input.dir/input.filename is used.

A file with a malformed header or an unparsable row is rejected before any
report is written. A report that fails to write is listed at the end; the
other weeks are still written.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory for the weekly CSV reports")
	cmd.Flags().String("week-start", "", "first day of the week (e.g. monday, sun)")
	cmd.Flags().String("partial", "", "leading/trailing partial weeks: drop or keep")
	cmd.Flags().Bool("no-progress", false, "do not show the progress bar")

	_ = viper.BindPFlag("output.dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("week.start", cmd.Flags().Lookup("week-start"))
	_ = viper.BindPFlag("week.partial", cmd.Flags().Lookup("partial"))

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := resolveInputs(cfg, args)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := interrupts.HandleInterrupts(cmd.Context(), cfg.ArchivePath != "")
	defer stop()

	sinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}

	eng := engine.New(cfg.EngineOptions(), sinks...)

	archive, err := openArchive(ctx, cfg.ArchivePath)
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
		eng = eng.WithArchive(archive)
	}

	var progress *cli.Progress
	if !noProgress {
		progress = cli.NewProgress(cmd.ErrOrStderr())
		eng = eng.WithObserver(progress)
	}

	slog.Info("Writing weekly reports", "files", len(paths), "output_dir", cfg.OutputDir)

	results, runErr := eng.ProcessFiles(ctx, paths)
	if progress != nil {
		progress.Finish()
	}

	if summary := cli.RenderRunSummary(results, cfg.Currency); summary != "" {
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	}

	if runErr != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		if common.IsFatal(runErr) {
			return common.NewUserError("Input could not be read; no reports were written for it", runErr)
		}
		return runErr
	}

	failed := 0
	for _, result := range results {
		failed += len(result.Failed)
	}
	if failed > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%d report writes failed; see above", failed)))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Weekly reports written to "+cfg.OutputDir))
	return nil
}
