package enrich

import (
	"context"

	"schedex/models"
	"schedex/ports"
)

// NoopEnricher proposes nothing for every product. It is the default
// wiring so the heuristic pipeline runs unchanged when no provider is
// configured.
type NoopEnricher struct{}

func NewNoopEnricher() *NoopEnricher {
	return &NoopEnricher{}
}

var _ ports.Enricher = (*NoopEnricher)(nil)

func (e *NoopEnricher) EnrichProduct(ctx context.Context, rawText string, ec models.EnrichmentContext) (models.ProductPatch, error) {
	return models.ProductPatch{}, nil
}

func (e *NoopEnricher) EnrichBatch(ctx context.Context, items []models.EnrichmentItem) ([]models.ProductPatch, error) {
	return make([]models.ProductPatch, len(items)), nil
}
