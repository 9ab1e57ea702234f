package usecases

import (
	"context"
	"time"

	"parcel-ledger.backend/internal/domain/entities"
)

// CodeMetrics receives code allocation measurements
type CodeMetrics interface {
	ObserveAllocation(err error, elapsed time.Duration)
	IncFallbackCode()
}

// LedgerMetrics receives wallet ledger measurements
type LedgerMetrics interface {
	ObserveLedgerOperation(operation string, err error)
	SetWallets(active, suspended int64)
}

// FallbackCodeRegistry claims fallback codes so concurrent packages never share one
type FallbackCodeRegistry interface {
	Claim(ctx context.Context, code string) (bool, error)
}

// LedgerEventPublisher announces committed wallet mutations
type LedgerEventPublisher interface {
	Publish(ctx context.Context, event entities.LedgerEvent) error
}

// StatisticsCache stores the last computed ledger statistics
type StatisticsCache interface {
	Get(ctx context.Context) (*entities.LedgerStatistics, bool, error)
	Set(ctx context.Context, stats *entities.LedgerStatistics) error
}

type noopMetrics struct{}

func (noopMetrics) ObserveAllocation(error, time.Duration) {}
func (noopMetrics) IncFallbackCode() {}
func (noopMetrics) ObserveLedgerOperation(string, error) {}
func (noopMetrics) SetWallets(int64, int64) {}
