package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <slug...>",
	Short: "Remove perfumes from the local catalog",
	Long: `Deletes the given perfumes by slug. Unknown slugs are ignored.
Example:
  scent-scout delete dior-sauvage dior-dune`,
	Args: cobra.MinimumNArgs(1),
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

		n, err := db.DeletePerfumes(database, args)
		if err != nil {
			return fmt.Errorf("failed to delete perfumes: %w", err)
		}
		log.Printf("Deleted %d of %d perfume(s).", n, len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
