package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is append-only; it is never updated or reversed except by deleting the
// parent product.
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	QuantitySold int             `gorm:"column:quantity_sold;not null"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amount;type:numeric;not null"`
	SaleDate     time.Time       `gorm:"column:sale_date;autoCreateTime"`
	CreatedBy    *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatorRole  *string         `gorm:"column:creator_role;type:text"`
}
