package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

// WalletType classifies a wallet by its owner's role. It never affects arithmetic.
type WalletType string

const (
	WalletTypeRider    WalletType = "rider"
	WalletTypeAgent    WalletType = "agent"
	WalletTypeBusiness WalletType = "business"
	WalletTypeClient   WalletType = "client"
)

// WalletTypes lists every wallet type in inference precedence order
var WalletTypes = []WalletType{WalletTypeRider, WalletTypeAgent, WalletTypeBusiness, WalletTypeClient}

// Valid reports whether t is a known wallet type
func (t WalletType) Valid() bool {
	for _, known := range WalletTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Wallet holds an owner's ledger. The four amount fields are only written by the
// wallet ledger usecase.
type Wallet struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"ownerId"`
	Type           WalletType      `json:"walletType"`
	Balance        decimal.Decimal `json:"balance"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
	TotalCredited  decimal.Decimal `json:"totalCredited"`
	TotalDebited   decimal.Decimal `json:"totalDebited"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewWallet returns an active wallet with zero balances
func NewWallet(ownerID uuid.UUID, walletType WalletType) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		OwnerID:        ownerID,
		Type:           walletType,
		Balance:        decimal.Zero,
		PendingBalance: decimal.Zero,
		TotalCredited:  decimal.Zero,
		TotalDebited:   decimal.Zero,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ExpectedBalance is total_credited - total_debited
func (w *Wallet) ExpectedBalance() decimal.Decimal {
	return w.TotalCredited.Sub(w.TotalDebited)
}

// CheckInvariant verifies balance == credited - debited, balance >= 0 and pending >= 0
func (w *Wallet) CheckInvariant() error {
	if !w.Balance.Equal(w.ExpectedBalance()) {
		return fmt.Errorf("%w: balance %s != credited %s - debited %s",
			domainerrors.ErrLedgerInvariant, w.Balance, w.TotalCredited, w.TotalDebited)
	}
	if w.Balance.IsNegative() {
		return fmt.Errorf("%w: negative balance %s", domainerrors.ErrLedgerInvariant, w.Balance)
	}
	if w.PendingBalance.IsNegative() {
		return fmt.Errorf("%w: negative pending balance %s", domainerrors.ErrLedgerInvariant, w.PendingBalance)
	}
	return nil
}

// AmountScale is the number of decimal places the wallet amount columns store
// (numeric(20,4)). Finer amounts would be rounded per column on write.
const AmountScale = 4

// CheckAmount rejects non-positive amounts and amounts finer than AmountScale
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: more than %d decimal places", domainerrors.ErrInvalidAmount, AmountScale)
	}
	return nil
}

func (w *Wallet) checkMutable(amount decimal.Decimal) error {
	if err := CheckAmount(amount); err != nil {
		return err
	}
	if !w.IsActive {
		return domainerrors.ErrWalletInactive
	}
	return nil
}

// ApplyCredit adds amount to balance and total_credited
func (w *Wallet) ApplyCredit(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	w.TotalCredited = w.TotalCredited.Add(amount)
	w.Balance = w.Balance.Add(amount)
	return nil
}

// ApplyDebit removes amount from balance and adds it to total_debited. No partial debits.
func (w *Wallet) ApplyDebit(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	if w.Balance.LessThan(amount) {
		return domainerrors.ErrInsufficientFunds
	}
	w.TotalDebited = w.TotalDebited.Add(amount)
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// ApplyReserve adds amount to pending_balance
func (w *Wallet) ApplyReserve(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	w.PendingBalance = w.PendingBalance.Add(amount)
	return nil
}

// ApplyRelease removes amount from pending_balance
func (w *Wallet) ApplyRelease(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	if w.PendingBalance.LessThan(amount) {
		return domainerrors.ErrInsufficientPending
	}
	w.PendingBalance = w.PendingBalance.Sub(amount)
	return nil
}
