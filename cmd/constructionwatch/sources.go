package main

import (
	"github.com/spf13/cobra"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		return printJSON(cmd.OutOrStdout(), application.Orchestrator.Status())
	},
}

func init() {
	rootCmd.AddCommand(sourcesCommand)
}
