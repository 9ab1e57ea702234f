package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/internal/infrastructure/models"
	"parcel-ledger.backend/pkg/utils"
)

// AreaRepository implements delivery area reads
type AreaRepository struct {
	db *gorm.DB
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db *gorm.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Create creates a new area
func (r *AreaRepository) Create(ctx context.Context, area *entities.Area) error {
	if area.ID == uuid.Nil {
		area.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	area.CreatedAt = now
	area.UpdatedAt = now

	m := &models.Area{
		ID:        area.ID,
		Name:      area.Name,
		Initials:  area.Initials,
		CreatedAt: area.CreatedAt,
		UpdatedAt: area.UpdatedAt,
	}
	return translateStoreError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// GetByID gets an area by ID
func (r *AreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Area, error) {
	var m models.Area
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return &entities.Area{
		ID:        m.ID,
		Name:      m.Name,
		Initials:  m.Initials,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
