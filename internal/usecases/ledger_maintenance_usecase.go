package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/internal/domain/repositories"
	"parcel-ledger.backend/pkg/logger"
	"parcel-ledger.backend/pkg/utils"
)

// LedgerMaintenanceUsecase holds the offline batch operations: backfill,
// coverage, statistics and integrity checks. Apart from backfill's single-row
// inserts they only read.
type LedgerMaintenanceUsecase struct {
	ownerRepo  repositories.OwnerRepository
	walletRepo repositories.WalletRepository
	batchSize  int
	cache      StatisticsCache
	metrics    LedgerMetrics
}

// NewLedgerMaintenanceUsecase creates a new ledger maintenance usecase
func NewLedgerMaintenanceUsecase(
	ownerRepo repositories.OwnerRepository,
	walletRepo repositories.WalletRepository,
	batchSize int,
) *LedgerMaintenanceUsecase {
	return &LedgerMaintenanceUsecase{
		ownerRepo:  ownerRepo,
		walletRepo: walletRepo,
		batchSize:  utils.NormalizeBatchSize(batchSize),
		metrics:    noopMetrics{},
	}
}

// SetStatisticsCache installs the cache ComputeStatistics writes to
func (u *LedgerMaintenanceUsecase) SetStatisticsCache(c StatisticsCache) {
	u.cache = c
}

// SetMetrics installs a metrics sink
func (u *LedgerMaintenanceUsecase) SetMetrics(m LedgerMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	u.metrics = m
}

// BackfillMissingWallets creates a zero-balance wallet for every owner lacking
// one. Safe to re-run: the owner_id unique index turns duplicates into skips.
// A failing owner is recorded in Errors and the scan continues.
func (u *LedgerMaintenanceUsecase) BackfillMissingWallets(ctx context.Context) (*entities.BackfillResult, error) {
	result := &entities.BackfillResult{Errors: []uuid.UUID{}}
	cursor := utils.NewKeysetCursor(u.batchSize)

	for !cursor.Done() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		owners, err := u.ownerRepo.ListWithoutWallet(ctx, cursor.After, cursor.Limit)
		if err != nil {
			return result, err
		}

		lastID := cursor.After
		for _, owner := range owners {
			lastID = owner.ID
			result.Scanned++

			wallet := entities.NewWallet(owner.ID, InferWalletType(owner))
			created, err := u.walletRepo.CreateIfAbsent(ctx, wallet)
			if err != nil {
				logger.Warn(ctx, "Wallet backfill failed for owner",
					zap.String("owner_id", owner.ID.String()),
					zap.Error(err),
				)
				result.Errors = append(result.Errors, owner.ID)
				continue
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
		cursor.Advance(lastID, len(owners))
	}

	logger.Info(ctx, "Wallet backfill finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// VerifyCoverage counts owners with and without wallets
func (u *LedgerMaintenanceUsecase) VerifyCoverage(ctx context.Context) (*entities.CoverageReport, error) {
	total, err := u.ownerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	withWallets, err := u.ownerRepo.CountWithWallet(ctx)
	if err != nil {
		return nil, err
	}

	report := &entities.CoverageReport{
		TotalOwners:    total,
		WithWallets:    withWallets,
		WithoutWallets: total - withWallets,
	}
	if !report.Complete() {
		logger.Warn(ctx, "Owners without wallets", zap.Int64("count", report.WithoutWallets))
	}
	return report, nil
}

// ComputeStatistics aggregates every wallet with exact decimal sums and
// refreshes the statistics cache.
func (u *LedgerMaintenanceUsecase) ComputeStatistics(ctx context.Context) (*entities.LedgerStatistics, error) {
	stats := entities.NewLedgerStatistics()
	if err := u.scanWallets(ctx, func(w *entities.Wallet) {
		stats.Add(w)
	}); err != nil {
		return nil, err
	}

	u.metrics.SetWallets(stats.ActiveWallets, stats.SuspendedWallets)
	if u.cache != nil {
		if err := u.cache.Set(ctx, stats); err != nil {
			logger.Warn(ctx, "Failed to cache ledger statistics", zap.Error(err))
		}
	}
	return stats, nil
}

// CachedStatistics serves the cached statistics, computing them on a miss
func (u *LedgerMaintenanceUsecase) CachedStatistics(ctx context.Context) (*entities.LedgerStatistics, error) {
	if u.cache != nil {
		stats, found, err := u.cache.Get(ctx)
		if err != nil {
			logger.Warn(ctx, "Statistics cache read failed", zap.Error(err))
		}
		if found {
			return stats, nil
		}
	}
	return u.ComputeStatistics(ctx)
}

// VerifyIntegrity lists wallets whose stored fields break the ledger invariant
func (u *LedgerMaintenanceUsecase) VerifyIntegrity(ctx context.Context) (*entities.DriftReport, error) {
	report := &entities.DriftReport{Drifted: []entities.WalletDrift{}}
	err := u.scanWallets(ctx, func(w *entities.Wallet) {
		report.Checked++
		if err := w.CheckInvariant(); err != nil {
			report.Drifted = append(report.Drifted, entities.WalletDrift{
				WalletID:        w.ID,
				OwnerID:         w.OwnerID,
				Balance:         w.Balance,
				ExpectedBalance: w.ExpectedBalance(),
				Reason:          err.Error(),
			})
		}
	})
	if err != nil {
		return nil, err
	}

	if !report.Clean() {
		logger.Warn(ctx, "Ledger drift detected",
			zap.Int("checked", report.Checked),
			zap.Int("drifted", len(report.Drifted)),
		)
	}
	return report, nil
}

func (u *LedgerMaintenanceUsecase) scanWallets(ctx context.Context, visit func(*entities.Wallet)) error {
	cursor := utils.NewKeysetCursor(u.batchSize)
	for !cursor.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		wallets, err := u.walletRepo.ListAfter(ctx, cursor.After, cursor.Limit)
		if err != nil {
			return err
		}
		lastID := cursor.After
		for _, w := range wallets {
			visit(w)
			lastID = w.ID
		}
		cursor.Advance(lastID, len(wallets))
	}
	return nil
}
