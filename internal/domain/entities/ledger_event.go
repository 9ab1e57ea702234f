package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerOperation names a wallet mutation
type LedgerOperation string

const (
	LedgerOperationCredit  LedgerOperation = "credit"
	LedgerOperationDebit   LedgerOperation = "debit"
	LedgerOperationReserve LedgerOperation = "reserve"
	LedgerOperationRelease LedgerOperation = "release"
)

// LedgerEvent is emitted after a wallet mutation commits
type LedgerEvent struct {
	WalletID       uuid.UUID       `json:"walletId"`
	OwnerID        uuid.UUID       `json:"ownerId"`
	Operation      LedgerOperation `json:"operation"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// NewLedgerEvent snapshots w after op
func NewLedgerEvent(w *Wallet, op LedgerOperation, amount decimal.Decimal) LedgerEvent {
	return LedgerEvent{
		WalletID:       w.ID,
		OwnerID:        w.OwnerID,
		Operation:      op,
		Amount:         amount,
		Balance:        w.Balance,
		PendingBalance: w.PendingBalance,
		OccurredAt:     time.Now().UTC(),
	}
}
