package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierDetailRow is one supplier's slice of a product's ledger.
type SupplierDetailRow struct {
	SupplierID   uuid.UUID           `json:"supplierId"`
	SupplierName string              `json:"supplierName"`
	Quantity     int64               `json:"quantity"`
	Price        decimal.NullDecimal `json:"price"`
}

// PairBalance is one supplier's signed ledger sum for a product.
type PairBalance struct {
	SupplierID uuid.UUID
	Quantity   int64
}

// PairDetail is the GET /api/stock/{productId}/{supplierId} response.
type PairDetail struct {
	ProductID  uuid.UUID           `json:"productId"`
	SupplierID uuid.UUID           `json:"supplierId"`
	Quantity   int64               `json:"quantity"`
	Price      decimal.NullDecimal `json:"price"`
}

// AddInput is the POST /api/stock payload after validation.
type AddInput struct {
	ProductID  uuid.UUID
	SupplierID uuid.UUID
	Quantity   int
	Price      *decimal.Decimal
}
