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

// OwnerRepository reads wallet owners from the users and user_roles tables
type OwnerRepository struct {
	db *gorm.DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create creates a user together with its roles
func (r *OwnerRepository) Create(ctx context.Context, owner *entities.Owner) error {
	if owner.ID == uuid.Nil {
		owner.ID = utils.GenerateUUIDv7()
	}
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = time.Now()
	}

	m := &models.User{
		ID:        owner.ID,
		Email:     owner.Email,
		Name:      owner.Name,
		CreatedAt: owner.CreatedAt,
		UpdatedAt: owner.CreatedAt,
	}
	for _, role := range owner.Roles {
		m.Roles = append(m.Roles, models.UserRole{UserID: owner.ID, Role: string(role)})
	}
	return translateStoreError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// GetByID gets a user by ID
func (r *OwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Owner, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return r.toEntity(&m), nil
}

// ListWithoutWallet pages live users that own no wallet, ascending by id
func (r *OwnerRepository) ListWithoutWallet(ctx context.Context, afterID uuid.UUID, limit int) ([]*entities.Owner, error) {
	var ms []models.User
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Roles").
		Joins("LEFT JOIN wallets ON wallets.owner_id = users.id").
		Where("wallets.id IS NULL AND users.id > ?", afterID).
		Order("users.id ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, translateStoreError(err)
	}

	owners := make([]*entities.Owner, 0, len(ms))
	for i := range ms {
		owners = append(owners, r.toEntity(&ms[i]))
	}
	return owners, nil
}

// Count returns the number of live users
func (r *OwnerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, translateStoreError(err)
	}
	return count, nil
}

// CountWithWallet returns the number of live users that own a wallet
func (r *OwnerRepository) CountWithWallet(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN wallets ON wallets.owner_id = users.id").
		Count(&count).Error
	if err != nil {
		return 0, translateStoreError(err)
	}
	return count, nil
}

func (r *OwnerRepository) toEntity(m *models.User) *entities.Owner {
	owner := &entities.Owner{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
	for _, role := range m.Roles {
		owner.Roles = append(owner.Roles, entities.Role(role.Role))
	}
	return owner
}
