package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/searcher"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantic search for perfumes by 'vibe'",
	Long: `Uses AI to find perfumes whose notes match the meaning of your query.
Examples:
  scent-scout search "fresh citrus for summer"
  scent-scout search "smoky vanilla, cozy evening"

History commands:
  scent-scout search history
  scent-scout search clear "query string"
  scent-scout search clear all`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleSearch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func handleSearch(cmd *cobra.Command, args []string) error {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	defer database.Close()

	switch strings.ToLower(args[0]) {
	case "history":
		return printHistory(database)
	case "clear":
		if len(args) < 2 {
			return fmt.Errorf("usage: scent-scout search clear \"query text\" (or 'all')")
		}
		return clearHistory(database, strings.TrimSpace(strings.Join(args[1:], " ")))
	}

	query := strings.Join(args, " ")
	ctx := cmd.Context()

	aiClient, err := ai.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to init AI: %w", err)
	}
	defer aiClient.Close()

	results, err := searcher.Perform(ctx, database, aiClient, query, searcher.DefaultLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("\nTop matches for: %q\n\n", query)
	if len(results) == 0 {
		fmt.Println("No embedded perfumes yet. Run 'scent-scout embed' first.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("#%d [%.1f%% match] %s by %s", i+1, r.Score*100, r.Item.Name, r.Item.Brand)
		if r.Item.Concentration != "" {
			fmt.Printf(" (%s)", r.Item.Concentration)
		}
		fmt.Println()
	}
	return nil
}

func printHistory(database *sql.DB) error {
	entries, err := db.ListSearchHistory(database)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	fmt.Println("Search History (Cached Queries)")
	fmt.Println("-------------------------------")
	if len(entries) == 0 {
		fmt.Println("No history found.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("[%s] %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.QueryText)
	}
	return nil
}

func clearHistory(database *sql.DB, target string) error {
	var (
		affected int64
		err      error
	)
	if strings.EqualFold(target, "all") {
		affected, err = db.ClearAllSearchHistory(database)
	} else {
		affected, err = db.ClearSearchHistory(database, target)
	}
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Printf("Done. Removed %d entry(s) from cache.\n", affected)
	return nil
}
