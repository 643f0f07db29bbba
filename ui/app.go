package ui

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"schedex/ports"
)

//go:embed docs.md
var docsMarkdown []byte

// How many ledger rows /report returns, and how far back the token
// total looks.
const (
	reportRunLimit   = 20
	reportTokenRange = 30 * 24 * time.Hour
)

// App is the ops server: docs, health and ledger reporting on a port
// separate from the parse API.
type App struct {
	router   *chi.Mux
	runs     ports.ParseRunRepository
	usage    ports.EnrichmentUsageRepository
	docsHTML []byte
	port     string
}

// Config holds ops server configuration
type Config struct {
	Port string
}

// NewApp creates the ops application. Both repositories may be nil
// when no database is configured; /report degrades accordingly.
func NewApp(config Config, runs ports.ParseRunRepository, usage ports.EnrichmentUsageRepository) *App {
	app := &App{
		router:   chi.NewRouter(),
		runs:     runs,
		usage:    usage,
		docsHTML: renderDocs(docsMarkdown),
		port:     config.Port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// renderDocs converts the embedded markdown into a standalone HTML page.
func renderDocs(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{
		Title: "schedex API",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/docs", a.handleDocs)
	a.router.Get("/report", a.handleReport)
}

// Router exposes the handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.port
	log.Printf("Starting schedex ops server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(a.docsHTML)
}

// handleReport returns the most recent parse runs plus enrichment token
// totals from the ledger.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	if a.runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "Run ledger is not configured",
		})
		return
	}

	runs, err := a.runs.ListRecentRuns(r.Context(), reportRunLimit)
	if err != nil {
		log.Printf("[OpsServer] Failed to load runs: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to load runs",
		})
		return
	}

	totalProducts := 0
	for _, run := range runs {
		totalProducts += run.ProductCount
	}

	report := map[string]interface{}{
		"runs":           runs,
		"run_count":      len(runs),
		"total_products": totalProducts,
	}

	if a.usage != nil {
		end := time.Now()
		tokens, err := a.usage.GetTotalTokens(r.Context(), end.Add(-reportTokenRange), end)
		if err != nil {
			log.Printf("[OpsServer] Failed to total tokens: %v", err)
		} else {
			report["enrichment_tokens_30d"] = tokens
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[OpsServer] Failed to encode response: %v", err)
	}
}
