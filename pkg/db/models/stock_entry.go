package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is a ledger row: positive quantity for restock, negative for the
// consuming row a sale appends. Available stock is the sum of QuantityAdded.
type StockEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SupplierID    uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null;index"`
	QuantityAdded int             `gorm:"column:quantity_added;not null"`
	Price         decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (StockEntry) TableName() string {
	return "stock_entries"
}
