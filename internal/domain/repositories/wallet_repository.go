package repositories

import (
	"context"

	"github.com/google/uuid"
	"parcel-ledger.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations
type WalletRepository interface {
	// CreateIfAbsent inserts the wallet unless its owner already has one.
	// Returns false when a wallet already existed.
	CreateIfAbsent(ctx context.Context, wallet *entities.Wallet) (bool, error)
	// GetByID honours UnitOfWork.WithLock
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entities.Wallet, error)
	// UpdateBalances writes the four ledger fields together
	UpdateBalances(ctx context.Context, wallet *entities.Wallet) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// ListAfter pages wallets ordered by id, starting after afterID
	ListAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]*entities.Wallet, error)
	Count(ctx context.Context) (int64, error)
}
