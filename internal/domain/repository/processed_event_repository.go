package repository

import (
	"context"
	"time"

	"github.com/fitcal/fitcal-backend/internal/domain/model"
)

// ProcessedEventRepository is the idempotency store for webhook events.
type ProcessedEventRepository interface {
	// Exists reports whether the event id has already been recorded.
	Exists(ctx context.Context, eventID string) (bool, error)

	// Reserve durably records the event id. Under concurrent calls with the
	// same id exactly one caller observes admitted == true; the uniqueness is
	// enforced by the storage layer, never by a read-then-write check.
	Reserve(ctx context.Context, eventID, eventType string) (admitted bool, err error)

	// List returns the most recently received records, newest first.
	List(ctx context.Context, limit int) ([]*model.ProcessedEvent, error)

	// PruneOlderThan removes records received before the cutoff. Retention is
	// an operational concern only; correctness never depends on pruning.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
