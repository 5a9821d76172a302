package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ConstructionWatch/internal/domain"
)

var (
	runSource   string
	runParallel int
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run scrapers once and print the resulting runs",
	Long: `Runs every enabled source (or only --source) once. Sources run one after
another unless --parallel is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		var runs []domain.ScraperRun
		switch {
		case runSource != "":
			run, err := application.Orchestrator.RunOne(ctx, runSource)
			if err != nil {
				return err
			}
			runs = []domain.ScraperRun{run}
		case runParallel > 0:
			runs = application.Orchestrator.RunAllParallel(ctx, runParallel)
		default:
			runs = application.Orchestrator.RunAll(ctx)
		}
		return printJSON(cmd.OutOrStdout(), runs)
	},
}

func init() {
	runCommand.Flags().StringVarP(&runSource, "source", "s", "", "Run only this source id")
	runCommand.Flags().IntVarP(&runParallel, "parallel", "p", 0, "Run up to N sources concurrently")
	rootCmd.AddCommand(runCommand)
}
