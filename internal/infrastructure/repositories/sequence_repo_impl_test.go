package repositories

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

func nextInTx(t *testing.T, u *UnitOfWorkImpl, repo *SequenceRepository, key entities.RouteKey) int64 {
	t.Helper()
	var seq int64
	require.NoError(t, u.Do(context.Background(), func(ctx context.Context) error {
		var err error
		seq, err = repo.NextSequence(ctx, key)
		return err
	}))
	return seq
}

func TestSequenceRepository_IncrementsPerScope(t *testing.T) {
	db := newTestDB(t)
	createPackageTables(t, db)
	u := &UnitOfWorkImpl{db: db}
	repo := NewSequenceRepository(db)

	a, b := uuid.New(), uuid.New()
	forward := entities.NewRouteKey(a, b)
	backward := entities.NewRouteKey(b, a)

	require.Equal(t, int64(1), nextInTx(t, u, repo, forward))
	require.Equal(t, int64(2), nextInTx(t, u, repo, forward))
	require.Equal(t, int64(1), nextInTx(t, u, repo, backward), "B->A is its own scope")
	require.Equal(t, int64(1), nextInTx(t, u, repo, entities.NewRouteKey(a, a)))
	require.Equal(t, int64(3), nextInTx(t, u, repo, forward))

	cur, err := repo.Current(context.Background(), forward)
	require.NoError(t, err)
	require.Equal(t, int64(3), cur)

	cur, err = repo.Current(context.Background(), entities.NewRouteKey(uuid.New(), b))
	require.NoError(t, err)
	require.Zero(t, cur)
}

func TestSequenceRepository_SeedsFromExistingPackages(t *testing.T) {
	db := newTestDB(t)
	createPackageTables(t, db)
	u := &UnitOfWorkImpl{db: db}
	repo := NewSequenceRepository(db)

	a, b := uuid.New(), uuid.New()
	for _, seq := range []int{1, 2, 7} {
		mustExec(t, db, "INSERT INTO packages(id,origin_area_id,destination_area_id,sequence_number) VALUES (?,?,?,?)",
			uuid.New().String(), a.String(), b.String(), seq)
	}
	// fallback-coded rows carry no sequence and must not disturb the seed
	mustExec(t, db, "INSERT INTO packages(id,origin_area_id,destination_area_id,code) VALUES (?,?,?,?)",
		uuid.New().String(), a.String(), b.String(), "PKG-ABCDEF12")

	require.Equal(t, int64(8), nextInTx(t, u, repo, entities.NewRouteKey(a, b)))
}

func TestSequenceRepository_RejectsUnresolvedRoute(t *testing.T) {
	db := newTestDB(t)
	createPackageTables(t, db)
	repo := NewSequenceRepository(db)

	_, err := repo.NextSequence(context.Background(), entities.NewRouteKey(uuid.New(), uuid.Nil))
	require.ErrorIs(t, err, domainerrors.ErrUnresolvedRoute)
}

func TestSequenceRepository_ConcurrentAllocationsAreUnique(t *testing.T) {
	db := newTestDB(t)
	createPackageTables(t, db)
	u := &UnitOfWorkImpl{db: db}
	repo := NewSequenceRepository(db)
	key := entities.NewRouteKey(uuid.New(), uuid.New())

	const workers = 25
	var (
		mu   sync.Mutex
		seen []int64
	)
	g, gctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return u.Do(gctx, func(ctx context.Context) error {
				seq, err := repo.NextSequence(ctx, key)
				if err != nil {
					return err
				}
				mu.Lock()
				seen = append(seen, seq)
				mu.Unlock()
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	require.Len(t, seen, workers)
	for i, seq := range seen {
		require.Equal(t, int64(i+1), seq)
	}
}

func TestSequenceRepository_StoreErrorIsTranslated(t *testing.T) {
	db := newTestDB(t)
	createPackageTables(t, db)
	repo := NewSequenceRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.NextSequence(context.Background(), entities.NewRouteKey(uuid.New(), uuid.New()))
	require.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
}
