package web

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"mspro-labs/scent-scout/internal/ai"
	"mspro-labs/scent-scout/internal/db"
	"mspro-labs/scent-scout/internal/models"
	"mspro-labs/scent-scout/internal/searcher"
)

// Embed the 'templates' directory.
//
//go:embed templates
var Assets embed.FS

// minScore hides search results below a 20% match.
const minScore = 0.2

// pathEscape keeps brands containing '/' inside the {brand} segment.
var funcMap = template.FuncMap{
	"percent":    func(f float32) float32 { return f * 100 },
	"deref":      models.Value,
	"join":       func(s []string) string { return strings.Join(s, ", ") },
	"pathEscape": url.PathEscape,
}

// Server renders the perfume catalog.
type Server struct {
	db    *sql.DB
	emb   ai.Embedder
	pages map[string]*template.Template
}

// NewServer parses the templates. emb may be nil, which disables search.
func NewServer(database *sql.DB, emb ai.Embedder) (*Server, error) {
	// Each page is parsed separately to avoid block collisions.
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(Assets, "templates/base.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "brand", "fragrance", "search"} {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if tmpl, err = tmpl.ParseFS(Assets, "templates/"+name+".html"); err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}

	return &Server{db: database, emb: emb, pages: pages}, nil
}

// Handler returns the routes of the UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /brands/{brand}", s.handleBrand)
	mux.HandleFunc("GET /fragrance/{slug}", s.handleFragrance)
	mux.HandleFunc("GET /search", s.handleSearch)

	// Read-only JSON API.
	mux.HandleFunc("GET /api/fragrances", s.handleAPIList)
	mux.HandleFunc("GET /api/fragrances/{slug}", s.handleAPIGet)
	return mux
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	brands, err := db.ListBrands(s.db)
	if err != nil {
		log.Printf("DB error: %v", err)
		http.Error(w, "Failed to load brands", http.StatusInternalServerError)
		return
	}
	s.render(w, "home", brands)
}

func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request) {
	brand := r.PathValue("brand")
	perfumes, err := db.ListPerfumes(s.db, brand)
	if err != nil {
		log.Printf("DB error: %v", err)
		http.Error(w, "Failed to load perfumes", http.StatusInternalServerError)
		return
	}
	if len(perfumes) == 0 {
		http.NotFound(w, r)
		return
	}

	data := struct {
		Brand    string
		Perfumes []db.CatalogEntry
	}{
		Brand:    models.Value(perfumes[0].Brand),
		Perfumes: perfumes,
	}
	s.render(w, "brand", data)
}

func (s *Server) handleFragrance(w http.ResponseWriter, r *http.Request) {
	entry, err := db.GetPerfume(s.db, r.PathValue("slug"))
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("DB error: %v", err)
		http.Error(w, "Failed to load perfume", http.StatusInternalServerError)
		return
	}
	s.render(w, "fragrance", entry)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if s.emb == nil {
		http.Error(w, "Search is not configured (GEMINI_API_KEY missing)", http.StatusServiceUnavailable)
		return
	}

	results, err := searcher.Perform(r.Context(), s.db, s.emb, query, searcher.DefaultLimit)
	if err != nil {
		log.Printf("Search error: %v", err)
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	var filtered []searcher.Result
	for _, res := range results {
		if res.Score >= minScore {
			filtered = append(filtered, res)
		}
	}

	data := struct {
		Query   string
		Results []searcher.Result
	}{
		Query:   query,
		Results: filtered,
	}
	s.render(w, "search", data)
}

// handleAPIList returns the catalog, optionally narrowed with ?brand=.
func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	entries, err := db.ListPerfumes(s.db, r.URL.Query().Get("brand"))
	if err != nil {
		log.Printf("DB error: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{"Failed to fetch fragrances"})
		return
	}
	if entries == nil {
		entries = []db.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	entry, err := db.GetPerfume(s.db, r.PathValue("slug"))
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, apiError{"Fragrance not found"})
		return
	}
	if err != nil {
		log.Printf("DB error: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{"Failed to fetch fragrance"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func (s *Server) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[page].ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template error: %v", err)
	}
}
