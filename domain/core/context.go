package core

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const parseRunKey contextKey = iota

// WithParseRun tags a context with the parse run the work belongs to.
// Recorders downstream read it to attribute rows to the run.
func WithParseRun(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, parseRunKey, id)
}

// ParseRunFrom returns the parse run carried by the context, if any.
func ParseRunFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(parseRunKey).(uuid.UUID)
	return id, ok
}
