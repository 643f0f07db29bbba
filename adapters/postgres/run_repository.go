package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"schedex/models"
	"schedex/ports"
)

// ParseRunRepositoryImpl implements ParseRunRepository for PostgreSQL
type ParseRunRepositoryImpl struct {
	db *sqlx.DB
}

// NewParseRunRepository creates a new PostgreSQL parse run repository
func NewParseRunRepository(db *sqlx.DB) ports.ParseRunRepository {
	return &ParseRunRepositoryImpl{db: db}
}

// RecordRun inserts one completed parse into the run ledger
func (r *ParseRunRepositoryImpl) RecordRun(ctx context.Context, run *models.ParseRun) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO parse_runs (
			id, filename, schedule_name, sheet_count, product_count,
			duration_ms, enriched, created_at
		) VALUES (
			:id, :filename, :schedule_name, :sheet_count, :product_count,
			:duration_ms, :enriched, :created_at
		)
	`, run)
	return err
}

// GetRun retrieves a single parse run by ID
func (r *ParseRunRepositoryImpl) GetRun(ctx context.Context, id uuid.UUID) (*models.ParseRun, error) {
	var run models.ParseRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, filename, schedule_name, sheet_count, product_count,
		       duration_ms, enriched, created_at
		FROM parse_runs
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecentRuns returns the newest parse runs first
func (r *ParseRunRepositoryImpl) ListRecentRuns(ctx context.Context, limit int) ([]*models.ParseRun, error) {
	var runs []*models.ParseRun
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, filename, schedule_name, sheet_count, product_count,
		       duration_ms, enriched, created_at
		FROM parse_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return runs, err
}
