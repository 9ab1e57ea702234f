package models

import (
	"time"

	"github.com/google/uuid"
)

// RouteSequence is the lockable counter row for one (origin, destination) scope
type RouteSequence struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OriginAreaID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_route_sequences_scope,priority:1"`
	DestinationAreaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_route_sequences_scope,priority:2"`
	LastSequence      int64     `gorm:"not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (RouteSequence) TableName() string {
	return "route_sequences"
}
