package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/models"
	"mspro-labs/scent-scout/internal/sink"
)

var listBrand string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the ingested catalog as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.GetAppConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		database, err := db.Connect(appCfg.DBPath)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer database.Close()

		entries, err := db.ListPerfumes(database, listBrand)
		if err != nil {
			return fmt.Errorf("failed to list perfumes: %w", err)
		}

		perfumes := make([]models.Perfume, 0, len(entries))
		for _, e := range entries {
			perfumes = append(perfumes, e.Perfume)
		}
		sink.RenderTable(os.Stdout, perfumes)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listBrand, "brand", "", "only list this brand")
	rootCmd.AddCommand(listCmd)
}
