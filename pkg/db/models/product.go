package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Price here is the list price; the unit price
// used for sales is resolved from the stock ledger.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:text;not null;uniqueIndex"`
	Category    string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedBy   *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatorRole *string         `gorm:"column:creator_role;type:text"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
