package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
	"parcel-ledger.backend/internal/infrastructure/models"
	"parcel-ledger.backend/pkg/utils"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// CreateIfAbsent inserts the wallet, relying on the owner_id unique index so
// concurrent creators converge on a single row.
func (r *WalletRepository) CreateIfAbsent(ctx context.Context, wallet *entities.Wallet) (bool, error) {
	if wallet.ID == uuid.Nil {
		wallet.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now
	}
	wallet.UpdatedAt = now

	result := GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoNothing: true,
		}).
		Create(r.toModel(wallet))
	if result.Error != nil {
		return false, translateStoreError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return r.toEntity(&m), nil
}

// GetByOwnerID gets the wallet owned by ownerID
func (r *WalletRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockedDB(ctx, r.db).Where("owner_id = ?", ownerID).First(&m).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return r.toEntity(&m), nil
}

// UpdateBalances writes balance, pending, credited and debited in one statement
func (r *WalletRepository) UpdateBalances(ctx context.Context, wallet *entities.Wallet) error {
	wallet.UpdatedAt = time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"balance":         wallet.Balance,
			"pending_balance": wallet.PendingBalance,
			"total_credited":  wallet.TotalCredited,
			"total_debited":   wallet.TotalDebited,
			"updated_at":      wallet.UpdatedAt,
		})
	if result.Error != nil {
		return translateStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetActive toggles whether the wallet accepts ledger operations
func (r *WalletRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return translateStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListAfter pages wallets by ascending id
func (r *WalletRepository) ListAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]*entities.Wallet, error) {
	var ms []models.Wallet
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, translateStoreError(err)
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, nil
}

// Count returns the number of wallets
func (r *WalletRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).Count(&count).Error; err != nil {
		return 0, translateStoreError(err)
	}
	return count, nil
}

func (r *WalletRepository) toModel(w *entities.Wallet) *models.Wallet {
	return &models.Wallet{
		ID:             w.ID,
		OwnerID:        w.OwnerID,
		WalletType:     string(w.Type),
		Balance:        w.Balance,
		PendingBalance: w.PendingBalance,
		TotalCredited:  w.TotalCredited,
		TotalDebited:   w.TotalDebited,
		IsActive:       w.IsActive,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Type:           entities.WalletType(m.WalletType),
		Balance:        m.Balance,
		PendingBalance: m.PendingBalance,
		TotalCredited:  m.TotalCredited,
		TotalDebited:   m.TotalDebited,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
