package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
	"parcel-ledger.backend/internal/usecases"
)

func TestSequenceAllocator_Allocate(t *testing.T) {
	uow := new(MockUnitOfWork)
	seqRepo := new(MockSequenceRepository)
	metrics := newRecordingMetrics()
	allocator := usecases.NewSequenceAllocator(uow, seqRepo)
	allocator.SetMetrics(metrics)

	key := entities.NewRouteKey(uuid.New(), uuid.New())
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	seqRepo.On("NextSequence", mock.Anything, key).Return(int64(3), nil).Once()

	seq, err := allocator.Allocate(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
	assert.Equal(t, []error{nil}, metrics.allocations)
	seqRepo.AssertExpectations(t)
}

func TestSequenceAllocator_UnresolvedRouteSkipsStore(t *testing.T) {
	uow := new(MockUnitOfWork)
	seqRepo := new(MockSequenceRepository)
	allocator := usecases.NewSequenceAllocator(uow, seqRepo)

	_, err := allocator.Allocate(context.Background(), entities.NewRouteKey(uuid.Nil, uuid.New()))
	assert.ErrorIs(t, err, domainerrors.ErrUnresolvedRoute)
	assert.Equal(t, domainerrors.KindPrecondition, domainerrors.KindOf(err))
	uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestSequenceAllocator_LockTimeoutBecomesAllocationTimeout(t *testing.T) {
	uow := new(MockUnitOfWork)
	seqRepo := new(MockSequenceRepository)
	metrics := newRecordingMetrics()
	allocator := usecases.NewSequenceAllocator(uow, seqRepo)
	allocator.SetMetrics(metrics)

	key := entities.NewRouteKey(uuid.New(), uuid.New())
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	seqRepo.On("NextSequence", mock.Anything, key).
		Return(int64(0), fmt.Errorf("%w: canceling statement due to lock timeout", domainerrors.ErrLockTimeout)).Once()

	_, err := allocator.Allocate(context.Background(), key)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAllocationTimeout)
	assert.ErrorIs(t, err, domainerrors.ErrLockTimeout)
	assert.True(t, domainerrors.IsRetryable(err))
	require.Len(t, metrics.allocations, 1)
	assert.Error(t, metrics.allocations[0])
}

func TestSequenceAllocator_StoreUnavailableIsNotRetryable(t *testing.T) {
	uow := new(MockUnitOfWork)
	seqRepo := new(MockSequenceRepository)
	allocator := usecases.NewSequenceAllocator(uow, seqRepo)

	key := entities.NewRouteKey(uuid.New(), uuid.New())
	uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	seqRepo.On("NextSequence", mock.Anything, key).Return(int64(0), domainerrors.ErrStoreUnavailable).Once()

	_, err := allocator.Allocate(context.Background(), key)
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domainerrors.ErrAllocationTimeout)
	assert.False(t, domainerrors.IsRetryable(err))
	seqRepo.AssertNumberOfCalls(t, "NextSequence", 1)
}
