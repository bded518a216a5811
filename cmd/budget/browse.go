package main

import (
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/engine"
	"github.com/Veraticus/weekly-budget/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the weekly reports of a file without writing them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			paths, err := resolveInputs(cfg, args)
			if err != nil {
				return err
			}

			eng := engine.New(cfg.EngineOptions())

			transactions, err := eng.Load(cmd.Context(), paths[0])
			if err != nil {
				if common.IsFatal(err) {
					return common.NewUserError("Input could not be read", err)
				}
				return err
			}

			reports, err := eng.Build(transactions)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), paths[0], reports, cfg.Currency)
		},
	}
}
