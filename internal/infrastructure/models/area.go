package models

import (
	"time"

	"github.com/google/uuid"
)

type Area struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Initials  string    `gorm:"type:varchar(10)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
