package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
	"parcel-ledger.backend/internal/infrastructure/models"
	"parcel-ledger.backend/pkg/utils"
)

// PackageRepository implements package code persistence
type PackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create creates a new package
func (r *PackageRepository) Create(ctx context.Context, pkg *entities.Package) error {
	if pkg.ID == uuid.Nil {
		pkg.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now

	m := &models.Package{
		ID:                pkg.ID,
		OriginAreaID:      nullableID(pkg.OriginAreaID),
		DestinationAreaID: nullableID(pkg.DestinationAreaID),
		SequenceNumber:    pkg.SequenceNumber.Ptr(),
		Code:              pkg.Code.Ptr(),
		CreatedAt:         pkg.CreatedAt,
		UpdatedAt:         pkg.UpdatedAt,
	}
	return translateStoreError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// GetByID gets a package by ID
func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Package, error) {
	var m models.Package
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return r.toEntity(&m), nil
}

// AssignCode stores the generated code. A package that already carries a code
// is left untouched and reported as ErrAlreadyExists.
func (r *PackageRepository) AssignCode(ctx context.Context, id uuid.UUID, sequence null.Int64, code string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Package{}).
		Where("id = ? AND code IS NULL", id).
		Updates(map[string]interface{}{
			"sequence_number": sequence.Ptr(),
			"code":            code,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return translateStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Package{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translateStoreError(err)
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrAlreadyExists
	}
	return nil
}

func (r *PackageRepository) toEntity(m *models.Package) *entities.Package {
	return &entities.Package{
		ID:                m.ID,
		OriginAreaID:      idOrNil(m.OriginAreaID),
		DestinationAreaID: idOrNil(m.DestinationAreaID),
		SequenceNumber:    null.Int64FromPtr(m.SequenceNumber),
		Code:              null.StringFromPtr(m.Code),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func nullableID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func idOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
