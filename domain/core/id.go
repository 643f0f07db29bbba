package core

import "github.com/google/uuid"

// NewUUID creates an identifier for database-backed rows. UUID v7 keeps
// ledger rows time-ordered; v4 is the fallback when v7 generation fails.
func NewUUID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id
}
