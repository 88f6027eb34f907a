package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/scraper"
	"mspro-labs/scent-scout/internal/sink"
)

var scrapeFlags struct {
	url     string
	max     int
	output  string
	format  string
	headful bool
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a brand's perfumes into a JSON file or a table",
	Long: `Opens the brand listing page, follows the first N perfume links one at a time,
extracts name, brand, concentration and notes from each page, and writes the
records once the run is complete.`,
	Example: `  scent-scout scrape --url https://www.parfumo.net/Perfumes/Dior --max 3
  scent-scout scrape --format table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd)
	},
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeFlags.url, "url", "", "brand listing URL (overrides brand_url)")
	f.IntVar(&scrapeFlags.max, "max", -1, "maximum perfumes to scrape (overrides max_perfumes)")
	f.StringVarP(&scrapeFlags.output, "output", "o", "", "JSON output file (overrides output_file)")
	f.StringVar(&scrapeFlags.format, "format", "json", "output format: json or table")
	f.BoolVar(&scrapeFlags.headful, "headful", false, "show the browser window")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command) error {
	if scrapeFlags.format != "json" && scrapeFlags.format != "table" {
		return fmt.Errorf("unknown format %q (want json or table)", scrapeFlags.format)
	}

	// 1. Load Config
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	siteCfg, err := loadSiteConfig(appCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}
	if err := applyScrapeFlags(cmd, siteCfg); err != nil {
		return err
	}

	// 2. Run Scraper
	perfumes, err := scraper.Scrape(cmd.Context(), siteCfg)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}
	log.Printf("Scraped %d perfumes.", len(perfumes))

	// 3. Write Output
	if scrapeFlags.format == "table" {
		sink.RenderTable(os.Stdout, perfumes)
		return nil
	}
	if err := sink.WriteJSON(siteCfg.OutputFile, perfumes); err != nil {
		return err
	}
	log.Printf("Scraping complete. Data saved to %s.", siteCfg.OutputFile)
	return nil
}

func applyScrapeFlags(cmd *cobra.Command, cfg *config.SiteConfig) error {
	if scrapeFlags.url != "" {
		cfg.BrandURL = scrapeFlags.url
	}
	if cmd.Flags().Changed("max") {
		if scrapeFlags.max < 0 {
			return fmt.Errorf("--max must not be negative")
		}
		cfg.MaxPerfumes = scrapeFlags.max
	}
	if scrapeFlags.output != "" {
		cfg.OutputFile = scrapeFlags.output
	}
	if scrapeFlags.headful {
		headless := false
		cfg.Headless = &headless
	}
	return nil
}
