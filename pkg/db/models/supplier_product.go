package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierProduct links a supplier to a product it can supply.
type SupplierProduct struct {
	SupplierID uuid.UUID `gorm:"column:supplier_id;type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SupplierProduct) TableName() string {
	return "supplier_products"
}
