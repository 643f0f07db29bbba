package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"schedex/models"
	"schedex/ports"
)

// EnrichmentUsageRepositoryImpl implements EnrichmentUsageRepository
// for PostgreSQL
type EnrichmentUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewEnrichmentUsageRepository creates a new PostgreSQL enrichment
// usage repository
func NewEnrichmentUsageRepository(db *sqlx.DB) ports.EnrichmentUsageRepository {
	return &EnrichmentUsageRepositoryImpl{db: db}
}

// RecordUsage records token usage for one enrichment model call
func (r *EnrichmentUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.EnrichmentUsage) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO enrichment_usage (
			id, run_id, provider, model, prompt_tokens, completion_tokens,
			total_tokens, duration_ms, purpose, created_at
		) VALUES (
			:id, :run_id, :provider, :model, :prompt_tokens, :completion_tokens,
			:total_tokens, :duration_ms, :purpose, :created_at
		)
	`, usage)
	return err
}

// GetRunUsage retrieves all usage rows recorded for a parse run
func (r *EnrichmentUsageRepositoryImpl) GetRunUsage(ctx context.Context, runID uuid.UUID) ([]*models.EnrichmentUsage, error) {
	var usages []*models.EnrichmentUsage
	err := r.db.SelectContext(ctx, &usages, `
		SELECT id, run_id, provider, model, prompt_tokens, completion_tokens,
		       total_tokens, duration_ms, purpose, created_at
		FROM enrichment_usage
		WHERE run_id = $1
		ORDER BY created_at ASC
	`, runID)
	return usages, err
}

// GetTotalTokens returns the total token count across all runs in a
// time period
func (r *EnrichmentUsageRepositoryImpl) GetTotalTokens(ctx context.Context, start, end time.Time) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(total_tokens), 0)
		FROM enrichment_usage
		WHERE created_at >= $1 AND created_at <= $2
	`, start, end)
	return total, err
}
