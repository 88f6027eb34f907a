package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/config"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context) error {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	defer database.Close()

	// Browsing works without Gemini; only search needs it.
	var emb ai.Embedder
	aiClient, err := ai.NewClient(ctx)
	if err != nil {
		log.Printf("Warning: search disabled: %v", err)
	} else {
		defer aiClient.Close()
		emb = aiClient
	}

	srv, err := web.NewServer(database, emb)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	server := &http.Server{
		Addr:         serveAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Web UI started at http://localhost%s", serveAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
