package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/embedder"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate AI embeddings for new perfumes",
	Long:  `Finds perfumes in the catalog that are missing note vectors and generates them using the Gemini API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appCfg, err := config.GetAppConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		database, err := db.Connect(appCfg.DBPath)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer database.Close()

		aiClient, err := ai.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize AI client: %w", err)
		}
		defer aiClient.Close()

		if _, err := embedder.Run(ctx, database, aiClient); err != nil {
			return fmt.Errorf("embedding process failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)
}
