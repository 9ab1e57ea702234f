package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
	"parcel-ledger.backend/internal/domain/repositories"
	"parcel-ledger.backend/pkg/logger"
)

// SequenceAllocator hands out per-scope sequence numbers under the scope's row lock
type SequenceAllocator struct {
	uow     repositories.UnitOfWork
	seqRepo repositories.SequenceRepository
	metrics CodeMetrics
}

// NewSequenceAllocator creates a new allocator
func NewSequenceAllocator(uow repositories.UnitOfWork, seqRepo repositories.SequenceRepository) *SequenceAllocator {
	return &SequenceAllocator{
		uow:     uow,
		seqRepo: seqRepo,
		metrics: noopMetrics{},
	}
}

// SetMetrics installs a metrics sink
func (a *SequenceAllocator) SetMetrics(m CodeMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	a.metrics = m
}

// Allocate reserves max+1 for key's scope. Called inside a transaction it joins
// it, so the reservation commits or rolls back with the caller's work.
func (a *SequenceAllocator) Allocate(ctx context.Context, key entities.RouteKey) (int64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}

	start := time.Now()
	var seq int64
	err := a.uow.Do(ctx, func(txCtx context.Context) error {
		next, err := a.seqRepo.NextSequence(txCtx, key)
		if err != nil {
			return err
		}
		seq = next
		return nil
	})
	if errors.Is(err, domainerrors.ErrLockTimeout) && !errors.Is(err, domainerrors.ErrAllocationTimeout) {
		err = fmt.Errorf("%w: %w", domainerrors.ErrAllocationTimeout, err)
	}
	a.metrics.ObserveAllocation(err, time.Since(start))

	if err != nil {
		logger.Warn(ctx, "Sequence allocation failed",
			zap.String("scope", key.String()),
			zap.String("kind", domainerrors.KindOf(err).String()),
			zap.Error(err),
		)
		return 0, err
	}
	return seq, nil
}
