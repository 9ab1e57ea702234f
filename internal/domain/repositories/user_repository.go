package repositories

import (
	"context"

	"github.com/google/uuid"
	"parcel-ledger.backend/internal/domain/entities"
)

// OwnerRepository reads the wallet owners of the surrounding platform
type OwnerRepository interface {
	Create(ctx context.Context, owner *entities.Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Owner, error)
	// ListWithoutWallet pages owners lacking a wallet ordered by id, roles loaded
	ListWithoutWallet(ctx context.Context, afterID uuid.UUID, limit int) ([]*entities.Owner, error)
	Count(ctx context.Context) (int64, error)
	CountWithWallet(ctx context.Context) (int64, error)
}
