package models

import (
	"time"

	"github.com/google/uuid"
)

// ParseRun represents one parse request in the audit ledger.
type ParseRun struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	ScheduleName string    `json:"schedule_name" db:"schedule_name"`
	SheetCount   int       `json:"sheet_count" db:"sheet_count"`
	ProductCount int       `json:"product_count" db:"product_count"`
	DurationMS   int64     `json:"duration_ms" db:"duration_ms"`
	Enriched     bool      `json:"enriched" db:"enriched"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EnrichmentUsage represents a single enrichment API call's token usage
type EnrichmentUsage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	RunID            uuid.UUID `json:"run_id" db:"run_id"`
	Provider         string    `json:"provider" db:"provider"` // 'deepinfra', 'openai', etc.
	Model            string    `json:"model" db:"model"`
	PromptTokens     int       `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" db:"total_tokens"`
	DurationMS       int64     `json:"duration_ms" db:"duration_ms"`
	Purpose          string    `json:"purpose" db:"purpose"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Enrichment purposes for categorization
const (
	PurposeProductEnrichment = "product_enrichment"
	PurposeBatchEnrichment   = "batch_enrichment"
)
