package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockViewRow is one product's summed ledger quantity. Zero-stock products
// still appear.
type StockViewRow struct {
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
	CurrentStock int64     `json:"currentStock"`
}

// SalesViewRow is one product's sales totals.
type SalesViewRow struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// SupplierViewRow is one supplier's summed ledger quantity.
type SupplierViewRow struct {
	SupplierID   uuid.UUID `json:"supplierId"`
	SupplierName string    `json:"supplierName"`
	TotalStock   int64     `json:"totalStock"`
}

// ChartRow merges the stock and sales views by product for the dashboard
// chart series.
type ChartRow struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	CurrentStock int64           `json:"currentStock"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// RecentSale is one of the latest sales on the combined view.
type RecentSale struct {
	ID           uuid.UUID       `json:"id"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	SaleDate     time.Time       `json:"saleDate"`
}

// Overview is the GET /api/analytics response.
type Overview struct {
	TotalRevenue   string       `json:"totalRevenue"`
	TotalItemsSold int64        `json:"totalItemsSold"`
	AvgOrderValue  string       `json:"avgOrderValue"`
	LowStockCount  int64        `json:"lowStockCount"`
	RecentSales    []RecentSale `json:"recentSales"`
	ChartData      []ChartRow   `json:"chartData"`
}
