package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the POST /api/sales payload.
type CreateSaleRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateInput carries the validated request plus the caller's identity.
type CreateInput struct {
	ProductID   uuid.UUID
	Quantity    int
	CreatedBy   *uuid.UUID
	CreatorRole *string
}

// SaleRow is one sale joined with its product name.
type SaleRow struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	SaleDate     time.Time       `json:"saleDate"`
	CreatorRole  *string         `json:"creatorRole,omitempty"`
}

// CreateSaleResult reports the committed sale back to the caller.
type CreateSaleResult struct {
	SaleID      uuid.UUID       `json:"saleId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
