package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "scent-scout",
	Short: "Scrape perfume catalogs and browse them locally",
	Long: `scent-scout collects perfume detail pages from a brand listing (name, brand,
concentration and the top/middle/base note pyramid), writes them to a JSON file,
and can ingest those files into a local catalog with semantic search.`,
	SilenceUsage: true,
}

// Execute runs the root command; Ctrl-C cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadSiteConfig reads the YAML config, falling back to the built-in
// parfumo.net settings when the file does not exist.
func loadSiteConfig(path string) (*config.SiteConfig, error) {
	cfg, err := config.LoadSiteConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No config at %s, using defaults.", path)
		return config.DefaultSiteConfig(), nil
	}
	return cfg, err
}
