package suppliers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest is the POST /api/suppliers payload.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactInfo string `json:"contactInfo"`
}

// UpdateSupplierRequest is the PUT /api/suppliers/{id} payload.
type UpdateSupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactInfo string `json:"contactInfo"`
}

// SupplierRow is one list item.
type SupplierRow struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductRef is one product linked to a supplier, with the quantity this
// supplier's ledger rows account for.
type ProductRef struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}
