package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/sink"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Load a scraped JSON file into the local catalog",
	Long: `Upserts every record of a scrape output file into the SQLite catalog, keyed by
a slug of brand and name. Records without a name or brand are skipped.
Defaults to the output_file of the site config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(args []string) error {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		siteCfg, err := loadSiteConfig(appCfg.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load site config: %w", err)
		}
		path = siteCfg.OutputFile
	}

	perfumes, err := sink.ReadJSON(path)
	if err != nil {
		return err
	}
	log.Printf("Read %d records from %s.", len(perfumes), path)

	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	defer database.Close()

	res, err := db.SavePerfumes(database, perfumes)
	if err != nil {
		return fmt.Errorf("failed to save perfumes: %w", err)
	}
	log.Printf("SUCCESS: Upserted %d perfumes (%d skipped).", res.Upserted, res.Skipped)
	return nil
}
