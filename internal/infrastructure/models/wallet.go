package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet amount columns hold entities.AmountScale decimal places
type Wallet struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	WalletType     string          `gorm:"type:varchar(20);not null;index"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	PendingBalance decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	TotalCredited  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	TotalDebited   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
