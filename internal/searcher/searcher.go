package searcher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/db"
)

// DefaultLimit is how many matches a search returns.
const DefaultLimit = 5

// Result holds a single search match.
type Result struct {
	Item  db.PerfumeVector
	Score float32
}

// Perform executes a semantic search over the embedded perfumes.
func Perform(ctx context.Context, database *sql.DB, emb ai.Embedder, queryText string, limit int) ([]Result, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return nil, errors.New("empty search query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryVector, err := getQueryVector(ctx, database, emb, queryText)
	if err != nil {
		return nil, err
	}

	perfumes, err := db.GetPerfumeVectors(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load perfumes: %w", err)
	}

	var results []Result
	for _, p := range perfumes {
		vec, err := ai.BytesToFloats(p.Vector)
		if err != nil {
			continue
		}
		results = append(results, Result{Item: p, Score: ai.CosineSimilarity(queryVector, vec)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// getQueryVector handles the "cache-aside" logic for query embeddings.
func getQueryVector(ctx context.Context, database *sql.DB, emb ai.Embedder, text string) ([]float32, error) {
	blob, err := db.GetCachedQuery(database, text)
	if err == nil {
		return ai.BytesToFloats(blob)
	}

	log.Printf("Cache miss for '%s'. Calling Gemini...", text)
	blob, floats, err := emb.EmbedString(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	// Don't fail the request if the cache write fails.
	if err := db.SaveCachedQuery(database, text, blob); err != nil {
		log.Printf("Warning: failed to save query to cache: %v", err)
	}

	return floats, nil
}
