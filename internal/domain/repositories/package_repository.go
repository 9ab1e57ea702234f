package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"parcel-ledger.backend/internal/domain/entities"
)

// PackageRepository defines package code persistence
type PackageRepository interface {
	Create(ctx context.Context, pkg *entities.Package) error
	// GetByID honours UnitOfWork.WithLock
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Package, error)
	// AssignCode stores the code and its sequence (null for fallback codes)
	AssignCode(ctx context.Context, id uuid.UUID, sequence null.Int64, code string) error
}

// AreaRepository reads delivery areas
type AreaRepository interface {
	Create(ctx context.Context, area *entities.Area) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Area, error)
}
