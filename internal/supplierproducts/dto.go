package supplierproducts

import "github.com/google/uuid"

// LinkRow is one supplier-product link joined with both names.
type LinkRow struct {
	SupplierID   uuid.UUID `json:"supplierId"`
	SupplierName string    `json:"supplierName"`
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
}
