package ports

import (
	"context"
	"time"

	"schedex/models"

	"github.com/google/uuid"
)

// EnrichmentUsageRepository defines the interface for enrichment token
// usage operations
type EnrichmentUsageRepository interface {
	// Record usage for an enrichment call
	RecordUsage(ctx context.Context, usage *models.EnrichmentUsage) error

	// Get usage rows for one run
	GetRunUsage(ctx context.Context, runID uuid.UUID) ([]*models.EnrichmentUsage, error)

	// Get total token count within a date range
	GetTotalTokens(ctx context.Context, start, end time.Time) (int, error)
}
