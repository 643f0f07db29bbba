package ports

import (
	"context"

	"schedex/models"
)

// Enricher proposes field values for products the heuristic pipeline
// could not fill. Implementations must be safe for concurrent batches.
type Enricher interface {
	// Enrich one product's raw cell text
	EnrichProduct(ctx context.Context, rawText string, ec models.EnrichmentContext) (models.ProductPatch, error)

	// Enrich a batch in one call; result aligns with items by index
	EnrichBatch(ctx context.Context, items []models.EnrichmentItem) ([]models.ProductPatch, error)
}
