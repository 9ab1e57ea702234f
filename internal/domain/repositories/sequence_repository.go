package repositories

import (
	"context"

	"parcel-ledger.backend/internal/domain/entities"
)

// SequenceRepository reserves per-scope sequence numbers
type SequenceRepository interface {
	// NextSequence locks the scope's counter, reserves max+1 and returns it.
	// Must run inside a UnitOfWork transaction; the lock lasts until commit.
	NextSequence(ctx context.Context, key entities.RouteKey) (int64, error)
	// Current returns the last reserved sequence for the scope, 0 when none
	Current(ctx context.Context, key entities.RouteKey) (int64, error)
}
