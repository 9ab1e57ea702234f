package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/internal/domain/repositories"
	"parcel-ledger.backend/pkg/logger"
)

// WalletLedgerUsecase is the only writer of wallet balance fields. Every mutation
// runs under an exclusive row lock on the wallet.
type WalletLedgerUsecase struct {
	uow        repositories.UnitOfWork
	walletRepo repositories.WalletRepository
	publisher  LedgerEventPublisher
	metrics    LedgerMetrics
}

// NewWalletLedgerUsecase creates a new wallet ledger usecase
func NewWalletLedgerUsecase(uow repositories.UnitOfWork, walletRepo repositories.WalletRepository) *WalletLedgerUsecase {
	return &WalletLedgerUsecase{
		uow:        uow,
		walletRepo: walletRepo,
		metrics:    noopMetrics{},
	}
}

// SetEventPublisher installs the publisher notified after each commit
func (u *WalletLedgerUsecase) SetEventPublisher(p LedgerEventPublisher) {
	u.publisher = p
}

// SetMetrics installs a metrics sink
func (u *WalletLedgerUsecase) SetMetrics(m LedgerMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	u.metrics = m
}

// Credit adds amount to balance and total_credited
func (u *WalletLedgerUsecase) Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error) {
	return u.apply(ctx, walletID, amount, entities.LedgerOperationCredit, (*entities.Wallet).ApplyCredit)
}

// Debit removes amount from balance and adds it to total_debited. A debit over
// the balance fails with ErrInsufficientFunds and changes nothing.
func (u *WalletLedgerUsecase) Debit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error) {
	return u.apply(ctx, walletID, amount, entities.LedgerOperationDebit, (*entities.Wallet).ApplyDebit)
}

// Reserve holds amount in pending_balance
func (u *WalletLedgerUsecase) Reserve(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error) {
	return u.apply(ctx, walletID, amount, entities.LedgerOperationReserve, (*entities.Wallet).ApplyReserve)
}

// Release returns amount from pending_balance
func (u *WalletLedgerUsecase) Release(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entities.Wallet, error) {
	return u.apply(ctx, walletID, amount, entities.LedgerOperationRelease, (*entities.Wallet).ApplyRelease)
}

// GetWallet reads a wallet without locking
func (u *WalletLedgerUsecase) GetWallet(ctx context.Context, walletID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByID(ctx, walletID)
}

// GetWalletByOwner reads the wallet of ownerID
func (u *WalletLedgerUsecase) GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByOwnerID(ctx, ownerID)
}

// SetActive suspends or reactivates a wallet. Wallets are never deleted.
func (u *WalletLedgerUsecase) SetActive(ctx context.Context, walletID uuid.UUID, active bool) (*entities.Wallet, error) {
	var updated *entities.Wallet
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.walletRepo.GetByID(u.uow.WithLock(txCtx), walletID)
		if err != nil {
			return err
		}
		if w.IsActive != active {
			if err := u.walletRepo.SetActive(txCtx, walletID, active); err != nil {
				return err
			}
			w.IsActive = active
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Wallet status changed",
		zap.String("wallet_id", walletID.String()),
		zap.Bool("active", active),
	)
	return updated, nil
}

type walletMutation func(w *entities.Wallet, amount decimal.Decimal) error

func (u *WalletLedgerUsecase) apply(
	ctx context.Context,
	walletID uuid.UUID,
	amount decimal.Decimal,
	op entities.LedgerOperation,
	mutate walletMutation,
) (*entities.Wallet, error) {
	if err := entities.CheckAmount(amount); err != nil {
		u.metrics.ObserveLedgerOperation(string(op), err)
		return nil, err
	}

	var updated *entities.Wallet
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := u.walletRepo.GetByID(u.uow.WithLock(txCtx), walletID)
		if err != nil {
			return err
		}
		if err := mutate(w, amount); err != nil {
			return err
		}
		if err := w.CheckInvariant(); err != nil {
			logger.Error(ctx, "Ledger invariant violated, rolling back",
				zap.String("wallet_id", walletID.String()),
				zap.String("operation", string(op)),
				zap.Error(err),
			)
			return err
		}
		if err := u.walletRepo.UpdateBalances(txCtx, w); err != nil {
			return err
		}
		updated = w
		return nil
	})
	u.metrics.ObserveLedgerOperation(string(op), err)
	if err != nil {
		return nil, err
	}

	u.publish(ctx, entities.NewLedgerEvent(updated, op, amount))
	return updated, nil
}

// publish runs after commit; a failure is logged and the mutation stands
func (u *WalletLedgerUsecase) publish(ctx context.Context, event entities.LedgerEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish ledger event",
			zap.String("wallet_id", event.WalletID.String()),
			zap.String("operation", string(event.Operation)),
			zap.Error(err),
		)
	}
}
