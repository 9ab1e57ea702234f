package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/pkg/logger"
	"parcel-ledger.backend/pkg/utils"
)

// DefaultReconcileInterval is how often the ledger is re-verified
const DefaultReconcileInterval = 15 * time.Minute

// LedgerReconciler is the slice of the maintenance usecase the job drives
type LedgerReconciler interface {
	VerifyCoverage(ctx context.Context) (*entities.CoverageReport, error)
	VerifyIntegrity(ctx context.Context) (*entities.DriftReport, error)
	ComputeStatistics(ctx context.Context) (*entities.LedgerStatistics, error)
}

// LedgerReconciliationJob periodically checks wallet coverage and ledger
// integrity and refreshes the cached statistics. It never writes balances.
type LedgerReconciliationJob struct {
	reconciler LedgerReconciler
	interval   time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewLedgerReconciliationJob creates the job; a non-positive interval uses DefaultReconcileInterval
func NewLedgerReconciliationJob(reconciler LedgerReconciler, interval time.Duration) *LedgerReconciliationJob {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	return &LedgerReconciliationJob{
		reconciler: reconciler,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// Start runs one pass immediately and then one per tick until ctx is
// cancelled or Stop is called.
func (j *LedgerReconciliationJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting ledger reconciliation job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.reconcile(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Ledger reconciliation job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Ledger reconciliation job stopped")
			return
		case <-ticker.C:
			j.reconcile(ctx)
		}
	}
}

// Stop ends Start; calling it more than once is safe
func (j *LedgerReconciliationJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// reconcile runs every check even when an earlier one fails
func (j *LedgerReconciliationJob) reconcile(ctx context.Context) *ReconcileOutcome {
	ctx = logger.WithJobID(ctx, utils.GenerateUUIDv7().String())
	outcome := &ReconcileOutcome{}

	coverage, err := j.reconciler.VerifyCoverage(ctx)
	if err != nil {
		logger.Error(ctx, "Coverage check failed", zap.Error(err))
		outcome.Failed++
	} else {
		outcome.Coverage = coverage
	}

	drift, err := j.reconciler.VerifyIntegrity(ctx)
	if err != nil {
		logger.Error(ctx, "Integrity check failed", zap.Error(err))
		outcome.Failed++
	} else {
		outcome.Drift = drift
		for _, d := range drift.Drifted {
			logger.Warn(ctx, "Wallet ledger drift",
				zap.String("wallet_id", d.WalletID.String()),
				zap.String("balance", d.Balance.String()),
				zap.String("expected_balance", d.ExpectedBalance.String()),
			)
		}
	}

	stats, err := j.reconciler.ComputeStatistics(ctx)
	if err != nil {
		logger.Error(ctx, "Statistics refresh failed", zap.Error(err))
		outcome.Failed++
	} else {
		outcome.Statistics = stats
	}

	if outcome.Failed == 0 {
		logger.Info(ctx, "Ledger reconciliation pass finished",
			zap.Int64("owners_without_wallet", coverage.WithoutWallets),
			zap.Int("wallets_checked", drift.Checked),
			zap.Int("wallets_drifted", len(drift.Drifted)),
		)
	}
	return outcome
}

// ReconcileOutcome is what a single pass observed
type ReconcileOutcome struct {
	Coverage   *entities.CoverageReport
	Drift      *entities.DriftReport
	Statistics *entities.LedgerStatistics
	Failed     int
}
