package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a source of product stock.
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:text;not null;uniqueIndex"`
	ContactInfo string    `gorm:"column:contact_info;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
