package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"mspro-labs/scent-scout/internal/models"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// It automatically applies recommended settings for concurrency (WAL mode).
func Connect(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	perfumeTable := `
	CREATE TABLE IF NOT EXISTS perfume (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  slug TEXT UNIQUE NOT NULL,
	  name TEXT NOT NULL,
	  brand TEXT NOT NULL,
	  concentration TEXT,
	  notes TEXT NOT NULL DEFAULT '{}',
	  source_url TEXT,
	  first_ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  last_ingested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  notes_embedding BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_perfume_brand ON perfume(brand);
	`
	if _, err := db.Exec(perfumeTable); err != nil {
		return err
	}

	// Search History Table (for local caching of AI queries)
	historyTable := `
	CREATE TABLE IF NOT EXISTS search_history (
		query_text TEXT PRIMARY KEY,
		embedding BLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(historyTable); err != nil {
		return err
	}

	return nil
}

// IngestResult counts what SavePerfumes did with a batch.
type IngestResult struct {
	Upserted int64
	Skipped  int
}

// SavePerfumes upserts scraped records keyed by slug. Records without a
// name or brand cannot be keyed and are skipped. A stored embedding is
// dropped when the notes of a perfume change.
func SavePerfumes(db *sql.DB, perfumes []models.Perfume) (IngestResult, error) {
	upsertSQL := `
	INSERT INTO perfume (
	  slug, name, brand, concentration, notes, source_url, last_ingested_at
	) VALUES (
	  ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP
	) ON CONFLICT(slug) DO UPDATE SET
	  name = excluded.name,
	  brand = excluded.brand,
	  concentration = excluded.concentration,
	  notes_embedding = CASE
	    WHEN perfume.notes = excluded.notes AND IFNULL(perfume.concentration, '') = IFNULL(excluded.concentration, '')
	    THEN perfume.notes_embedding
	    ELSE NULL
	  END,
	  notes = excluded.notes,
	  source_url = excluded.source_url,
	  last_ingested_at = CURRENT_TIMESTAMP;
	`

	var result IngestResult

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, err
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return result, err
	}
	defer stmt.Close()

	for _, p := range perfumes {
		slug := p.Slug()
		if slug == "" {
			log.Printf("Skipping record without name or brand: %s", p.URL)
			result.Skipped++
			continue
		}

		notes, err := json.Marshal(p.Notes.OrEmpty())
		if err != nil {
			tx.Rollback()
			return IngestResult{}, fmt.Errorf("failed to encode notes for %s: %w", slug, err)
		}

		res, err := stmt.ExecContext(ctx,
			slug,
			*p.Name,
			*p.Brand,
			sql.NullString{String: p.Concentration, Valid: p.Concentration != ""},
			string(notes),
			sql.NullString{String: p.URL, Valid: p.URL != ""},
		)
		if err != nil {
			tx.Rollback()
			return IngestResult{}, fmt.Errorf("failed to upsert %s: %w", slug, err)
		}
		rows, _ := res.RowsAffected()
		result.Upserted += rows
	}

	if err = tx.Commit(); err != nil {
		return IngestResult{}, err
	}

	return result, nil
}

// CatalogEntry is a perfume as stored in the catalog.
type CatalogEntry struct {
	Slug string `json:"slug"`
	models.Perfume
	FirstIngestedAt time.Time `json:"first_ingested_at"`
	LastIngestedAt  time.Time `json:"last_ingested_at"`
}

const selectEntry = `SELECT slug, name, brand, concentration, notes, source_url, first_ingested_at, last_ingested_at FROM perfume`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (CatalogEntry, error) {
	var (
		e            CatalogEntry
		name, brand  string
		conc, srcURL sql.NullString
		notes        string
	)
	if err := row.Scan(&e.Slug, &name, &brand, &conc, &notes, &srcURL, &e.FirstIngestedAt, &e.LastIngestedAt); err != nil {
		return CatalogEntry{}, err
	}
	e.Name = models.Text(name)
	e.Brand = models.Text(brand)
	e.Concentration = conc.String
	e.URL = srcURL.String
	if err := json.Unmarshal([]byte(notes), &e.Notes); err != nil {
		return CatalogEntry{}, fmt.Errorf("corrupt notes for %s: %w", e.Slug, err)
	}
	e.Notes = e.Notes.OrEmpty()
	return e, nil
}

// ListPerfumes returns the catalog ordered by brand and name. An empty brand
// lists every perfume.
func ListPerfumes(db *sql.DB, brand string) ([]CatalogEntry, error) {
	query := selectEntry + ` ORDER BY brand COLLATE NOCASE, name COLLATE NOCASE`
	args := []any{}
	if brand != "" {
		query = selectEntry + ` WHERE brand = ? COLLATE NOCASE ORDER BY name COLLATE NOCASE`
		args = append(args, brand)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetPerfume looks a perfume up by slug. Returns sql.ErrNoRows when unknown.
func GetPerfume(db *sql.DB, slug string) (CatalogEntry, error) {
	return scanEntry(db.QueryRow(selectEntry+` WHERE slug = ?`, slug))
}

// DeletePerfumes removes the given slugs from the catalog in one
// transaction and returns how many rows went away. Unknown slugs are ignored.
func DeletePerfumes(db *sql.DB, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, fmt.Errorf("no slugs given")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare("DELETE FROM perfume WHERE slug = ?")
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var deleted int64
	for _, slug := range slugs {
		res, err := stmt.Exec(slug)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to delete %s: %w", slug, err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// BrandCount is one row of the brand index.
type BrandCount struct {
	Brand string
	Count int
}

// ListBrands returns every brand in the catalog with its perfume count.
func ListBrands(db *sql.DB) ([]BrandCount, error) {
	rows, err := db.Query(`SELECT brand, COUNT(*) FROM perfume GROUP BY brand ORDER BY brand COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []BrandCount
	for rows.Next() {
		var b BrandCount
		if err := rows.Scan(&b.Brand, &b.Count); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// --- Embedding & Search Helpers ---

// GetUnembeddedPerfumes returns the perfumes that have no notes embedding yet.
func GetUnembeddedPerfumes(db *sql.DB) ([]CatalogEntry, error) {
	rows, err := db.Query(selectEntry + ` WHERE notes_embedding IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateEmbedding saves the generated vector blob for a specific perfume.
func UpdateEmbedding(db *sql.DB, slug string, embedding []byte) error {
	_, err := db.Exec("UPDATE perfume SET notes_embedding = ? WHERE slug = ?", embedding, slug)
	return err
}

// PerfumeVector is the slice of a catalog row the search needs.
type PerfumeVector struct {
	Slug          string
	Name          string
	Brand         string
	Concentration string
	Vector        []byte
}

// GetPerfumeVectors returns all perfumes that have embeddings.
func GetPerfumeVectors(db *sql.DB) ([]PerfumeVector, error) {
	rows, err := db.Query(`SELECT slug, name, brand, IFNULL(concentration, ''), notes_embedding FROM perfume WHERE notes_embedding IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PerfumeVector
	for rows.Next() {
		var pv PerfumeVector
		if err := rows.Scan(&pv.Slug, &pv.Name, &pv.Brand, &pv.Concentration, &pv.Vector); err != nil {
			return nil, err
		}
		results = append(results, pv)
	}
	return results, rows.Err()
}

// GetCachedQuery tries to find a previously searched query vector.
func GetCachedQuery(db *sql.DB, text string) ([]byte, error) {
	var blob []byte
	err := db.QueryRow("SELECT embedding FROM search_history WHERE query_text = ?", text).Scan(&blob)
	return blob, err
}

// SaveCachedQuery saves a new query and its vector to the history table.
func SaveCachedQuery(db *sql.DB, text string, blob []byte) error {
	_, err := db.Exec("INSERT OR IGNORE INTO search_history (query_text, embedding) VALUES (?, ?)", text, blob)
	return err
}

// --- History Management for search ---

type HistoryEntry struct {
	QueryText string
	CreatedAt time.Time
}

// ListSearchHistory returns all cached queries, newest first.
func ListSearchHistory(db *sql.DB) ([]HistoryEntry, error) {
	rows, err := db.Query("SELECT query_text, created_at FROM search_history ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.QueryText, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearSearchHistory removes a specific query from the cache.
func ClearSearchHistory(db *sql.DB, queryText string) (int64, error) {
	res, err := db.Exec("DELETE FROM search_history WHERE query_text = ?", queryText)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAllSearchHistory wipes the entire cache.
func ClearAllSearchHistory(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM search_history")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
