package models

import (
	"time"

	"github.com/google/uuid"
)

// Package area ids are nullable foreign keys; uuid.Nil is stored as NULL
type Package struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OriginAreaID      *uuid.UUID `gorm:"type:uuid;index:idx_packages_scope_sequence,unique,priority:1"`
	DestinationAreaID *uuid.UUID `gorm:"type:uuid;index:idx_packages_scope_sequence,unique,priority:2"`
	SequenceNumber    *int64     `gorm:"index:idx_packages_scope_sequence,unique,priority:3"`
	Code              *string    `gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
