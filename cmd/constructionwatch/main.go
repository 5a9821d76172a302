package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ConstructionWatch/internal/app"
	"ConstructionWatch/internal/config"
	"ConstructionWatch/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "constructionwatch",
	Short: "Scrape construction news into a moderation queue",
	Long: `ConstructionWatch scrapes news and government sites for articles about urban
construction projects, extracts dates, places, type and status, and files novel
articles as pending suggestions for moderators.

Configuration is read from the YAML file named by CONSTRUCTION_WATCH_CONFIG,
then .env and environment variables.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp(ctx context.Context) (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx, cfg, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
