package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"
	"parcel-ledger.backend/internal/domain/entities"
	"parcel-ledger.backend/internal/infrastructure/models"
	"parcel-ledger.backend/pkg/utils"
)

// SequenceRepository keeps one counter row per route scope in route_sequences
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextSequence locks the scope counter, seeding it from the packages already
// numbered on the scope when the row does not exist yet, and reserves max+1.
func (r *SequenceRepository) NextSequence(ctx context.Context, key entities.RouteKey) (int64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}
	origin, destination := key.Scope()
	db := GetDB(ctx, r.db).WithContext(ctx)

	counter, err := r.lockCounter(db, origin, destination)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.seedCounter(db, origin, destination); err != nil {
			return 0, translateStoreError(err)
		}
		counter, err = r.lockCounter(db, origin, destination)
	}
	if err != nil {
		return 0, translateStoreError(err)
	}

	next := counter.LastSequence + 1
	result := db.Model(&models.RouteSequence{}).
		Where("id = ?", counter.ID).
		Updates(map[string]interface{}{
			"last_sequence": next,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return 0, translateStoreError(result.Error)
	}
	return next, nil
}

// Current returns the last reserved sequence for the scope without locking
func (r *SequenceRepository) Current(ctx context.Context, key entities.RouteKey) (int64, error) {
	origin, destination := key.Scope()
	var m models.RouteSequence
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("origin_area_id = ? AND destination_area_id = ?", origin, destination).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, translateStoreError(err)
	}
	return m.LastSequence, nil
}

func (r *SequenceRepository) lockCounter(db *gorm.DB, origin, destination uuid.UUID) (*models.RouteSequence, error) {
	var m models.RouteSequence
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("origin_area_id = ? AND destination_area_id = ?", origin, destination).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// seedCounter inserts the counter row; a concurrent seeder wins silently.
func (r *SequenceRepository) seedCounter(db *gorm.DB, origin, destination uuid.UUID) error {
	var maxSeq int64
	if err := db.Model(&models.Package{}).
		Select("COALESCE(MAX(sequence_number), 0)").
		Where("origin_area_id = ? AND destination_area_id = ?", origin, destination).
		Row().Scan(&maxSeq); err != nil {
		return err
	}

	now := time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "origin_area_id"}, {Name: "destination_area_id"}},
		DoNothing: true,
	}).Create(&models.RouteSequence{
		ID:                utils.GenerateUUIDv7(),
		OriginAreaID:      origin,
		DestinationAreaID: destination,
		LastSequence:      maxSeq,
		CreatedAt:         now,
		UpdatedAt:         now,
	}).Error
}
