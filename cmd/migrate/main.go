package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// statements create the run ledger schema. run_id carries no foreign
// key; usage rows may arrive for runs the ledger never recorded.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS parse_runs (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		schedule_name TEXT NOT NULL,
		sheet_count INTEGER NOT NULL DEFAULT 0,
		product_count INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		enriched BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_parse_runs_created_at
		ON parse_runs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS enrichment_usage (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		purpose TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_enrichment_usage_run_id
		ON enrichment_usage (run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrichment_usage_created_at
		ON enrichment_usage (created_at)`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate [database-url] (or set DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("Migration failed: %v\nstatement: %s", err, stmt)
		}
	}

	log.Printf("Run ledger schema ready (%d statements applied)", len(statements))
}
