package es

import (
	"context"

	"gdprauditor/internal/domain/model"
)

// Ledger is the persistent record of already-audited domains. Existence of a
// row is the idempotency gate: the pipeline checks IsProcessed before doing
// any work, and Persist is a plain insert, never an upsert. Nothing here
// updates or deletes rows.
type Ledger interface {
	EnsureIndex(ctx context.Context) error
	IsProcessed(ctx context.Context, hostname string) (bool, error)
	Persist(ctx context.Context, record model.AuditRecord) error
}
