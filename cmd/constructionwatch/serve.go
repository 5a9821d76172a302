package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveParallel int

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run all scrapers on the configured interval until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer application.Close()

		return application.Serve(ctx, serveParallel)
	},
}

func init() {
	serveCommand.Flags().IntVarP(&serveParallel, "parallel", "p", 0, "Run up to N sources concurrently per tick")
	rootCmd.AddCommand(serveCommand)
}
