package container

import (
	"context"
	"fmt"
	"log"

	"schedex/adapters/enrich"
	"schedex/adapters/excel"
	"schedex/adapters/postgres"
	"schedex/app"
	"schedex/internal/config"
	"schedex/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	RunRepo   ports.ParseRunRepository
	UsageRepo ports.EnrichmentUsageRepository

	// Parsing components
	Reader   ports.SpreadsheetReader
	Enricher ports.Enricher
	Enhancer *app.ProductEnhancer
	Parser   *app.ParseService
}

// New creates a dependency injection container and wires every component
// that works without a database. Call InitWithDatabase afterwards to add
// run persistence.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg}
	c.initComponents()

	return c, nil
}

// InitWithDatabase initializes components that require database access
// and rewires the parser so runs and token usage are persisted.
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.RunRepo = postgres.NewParseRunRepository(db)
	c.UsageRepo = postgres.NewEnrichmentUsageRepository(db)
	c.initComponents()

	log.Printf("Container initialized with database connection")
	return nil
}

// initComponents builds the parsing pipeline from the current config and
// repositories. Safe to call again after repositories appear.
func (c *Container) initComponents() {
	c.Reader = excel.NewWorkbookLoader()
	c.Enricher = c.buildEnricher()

	c.Enhancer = app.NewProductEnhancer(c.Enricher, app.EnhancerConfig{
		Mode:             c.Config.Enrichment.Mode,
		MinMissingFields: c.Config.Enrichment.MinMissingFields,
		BatchSize:        c.Config.Enrichment.BatchSize,
		Concurrency:      int64(c.Config.Enrichment.Concurrency),
	})

	c.Parser = app.NewParseService(c.Enhancer, c.Config.Enrichment.Enabled, c.RunRepo)
}

// buildEnricher picks the enricher implementation for the configured
// provider. Disabled or unconfigured enrichment gets the no-op client.
func (c *Container) buildEnricher() ports.Enricher {
	cfg := c.Config.Enrichment
	if !cfg.Enabled || cfg.APIKey == "" {
		return enrich.NewNoopEnricher()
	}

	var usage enrich.UsageRecorder
	if c.UsageRepo != nil {
		usage = c.UsageRepo
	}

	return enrich.NewOpenAIEnricher(enrich.OpenAIConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Timeout:  cfg.Timeout,
	}, usage)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
