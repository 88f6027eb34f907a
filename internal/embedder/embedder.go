package embedder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/models"
)

// pause between API calls, keeps the free tier under ~60 RPM.
var pause = time.Second

// Run finds all perfumes missing embeddings and processes them.
// Failures on single perfumes are logged and skipped.
func Run(ctx context.Context, database *sql.DB, emb ai.Embedder) (int, error) {
	targets, err := db.GetUnembeddedPerfumes(database)
	if err != nil {
		return 0, err
	}

	if len(targets) == 0 {
		log.Println("All perfumes are already embedded.")
		return 0, nil
	}
	log.Printf("Found %d perfumes to embed...", len(targets))

	count := 0
	for _, entry := range targets {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		log.Printf("Embedding: %s", entry.Slug)

		blob, _, err := emb.EmbedString(ctx, DocumentText(entry))
		if err != nil {
			log.Printf("Error embedding %s: %v", entry.Slug, err)
			sleep(ctx)
			continue
		}

		if err := db.UpdateEmbedding(database, entry.Slug, blob); err != nil {
			log.Printf("Error saving embedding for %s: %v", entry.Slug, err)
			continue
		}

		count++
		sleep(ctx)
	}

	log.Printf("Successfully embedded %d perfumes.", count)
	return count, nil
}

// DocumentText is the text a perfume is embedded from.
func DocumentText(e db.CatalogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fragrance: %s\n", models.Value(e.Name))
	fmt.Fprintf(&b, "Brand: %s\n", models.Value(e.Brand))
	if e.Concentration != "" {
		fmt.Fprintf(&b, "Concentration: %s\n", e.Concentration)
	}
	writeTier(&b, "Top notes", e.Notes.Top)
	writeTier(&b, "Middle notes", e.Notes.Middle)
	writeTier(&b, "Base notes", e.Notes.Base)
	writeTier(&b, "Notes", e.Notes.General)
	return strings.TrimRight(b.String(), "\n")
}

func writeTier(b *strings.Builder, label string, notes []string) {
	if len(notes) > 0 {
		fmt.Fprintf(b, "%s: %s\n", label, strings.Join(notes, ", "))
	}
}

func sleep(ctx context.Context) {
	if pause <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(pause):
	}
}
