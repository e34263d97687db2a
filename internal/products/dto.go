package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierEntry is one supplier line in a product create or update: a link
// plus an initial (or replacement) stock quantity. A nil price falls back to
// the product list price.
type SupplierEntry struct {
	SupplierID uuid.UUID        `json:"supplierId" validate:"required"`
	Quantity   int              `json:"quantity" validate:"min=0"`
	Price      *decimal.Decimal `json:"price"`
}

// CreateProductRequest is the POST /api/products payload. Price carries no
// required rule: zero is a legal price, the service rejects negatives.
type CreateProductRequest struct {
	Name      string          `json:"name" validate:"required"`
	Category  string          `json:"category" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Suppliers []SupplierEntry `json:"suppliers" validate:"dive"`
}

// UpdateProductRequest is the PUT /api/products/{id} payload.
type UpdateProductRequest struct {
	Name      string          `json:"name" validate:"required"`
	Category  string          `json:"category" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Suppliers []SupplierEntry `json:"suppliers" validate:"dive"`
}

// Actor identifies the authenticated caller attributed on created rows.
type Actor struct {
	UserID *uuid.UUID
	Role   *string
}

// ProductRow is one list item; CurrentStock sums the product's ledger rows.
type ProductRow struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int64           `json:"currentStock"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SupplierRef is one supplier of a product.
type SupplierRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
}
