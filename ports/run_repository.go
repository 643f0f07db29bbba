package ports

import (
	"context"

	"schedex/models"

	"github.com/google/uuid"
)

// ParseRunRepository defines the interface for parse-run ledger operations
type ParseRunRepository interface {
	// Record a completed parse
	RecordRun(ctx context.Context, run *models.ParseRun) error

	// Get a single run by id
	GetRun(ctx context.Context, id uuid.UUID) (*models.ParseRun, error)

	// Get the most recent runs, newest first
	ListRecentRuns(ctx context.Context, limit int) ([]*models.ParseRun, error)
}
