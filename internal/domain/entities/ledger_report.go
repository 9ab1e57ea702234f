package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BackfillResult summarises one BackfillMissingWallets run
type BackfillResult struct {
	Scanned int         `json:"scanned"`
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	Errors  []uuid.UUID `json:"errors"`
}

// CoverageReport counts owners with and without wallets
type CoverageReport struct {
	TotalOwners    int64 `json:"totalOwners"`
	WithWallets    int64 `json:"withWallets"`
	WithoutWallets int64 `json:"withoutWallets"`
}

// Complete reports whether every owner has a wallet
func (r *CoverageReport) Complete() bool {
	return r.WithoutWallets == 0
}

// LedgerStatistics aggregates every wallet. Dashboards only, never correctness.
type LedgerStatistics struct {
	TotalWallets     int64                `json:"totalWallets"`
	ActiveWallets    int64                `json:"activeWallets"`
	SuspendedWallets int64                `json:"suspendedWallets"`
	ByType           map[WalletType]int64 `json:"byType"`
	TotalBalance     decimal.Decimal      `json:"totalBalance"`
	TotalPending     decimal.Decimal      `json:"totalPending"`
	TotalCredited    decimal.Decimal      `json:"totalCredited"`
	TotalDebited     decimal.Decimal      `json:"totalDebited"`
}

// NewLedgerStatistics returns empty statistics with every type present
func NewLedgerStatistics() *LedgerStatistics {
	stats := &LedgerStatistics{
		ByType:        make(map[WalletType]int64, len(WalletTypes)),
		TotalBalance:  decimal.Zero,
		TotalPending:  decimal.Zero,
		TotalCredited: decimal.Zero,
		TotalDebited:  decimal.Zero,
	}
	for _, t := range WalletTypes {
		stats.ByType[t] = 0
	}
	return stats
}

// Add folds one wallet into the totals
func (s *LedgerStatistics) Add(w *Wallet) {
	s.TotalWallets++
	if w.IsActive {
		s.ActiveWallets++
	} else {
		s.SuspendedWallets++
	}
	s.ByType[w.Type]++
	s.TotalBalance = s.TotalBalance.Add(w.Balance)
	s.TotalPending = s.TotalPending.Add(w.PendingBalance)
	s.TotalCredited = s.TotalCredited.Add(w.TotalCredited)
	s.TotalDebited = s.TotalDebited.Add(w.TotalDebited)
}

// WalletDrift describes a wallet whose stored state breaks the ledger invariant
type WalletDrift struct {
	WalletID        uuid.UUID       `json:"walletId"`
	OwnerID         uuid.UUID       `json:"ownerId"`
	Balance         decimal.Decimal `json:"balance"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	Reason          string          `json:"reason"`
}

// DriftReport is the outcome of an integrity scan
type DriftReport struct {
	Checked int           `json:"checked"`
	Drifted []WalletDrift `json:"drifted"`
}

// Clean reports whether no drift was found
func (r *DriftReport) Clean() bool {
	return len(r.Drifted) == 0
}
