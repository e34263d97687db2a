package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const lowStockThreshold = 10

// Service defines the behavior needed by the analytics controller. Every
// call recomputes from the database; nothing is cached.
type Service interface {
	StockView(ctx context.Context) ([]StockViewRow, error)
	SalesView(ctx context.Context) ([]SalesViewRow, error)
	SupplierView(ctx context.Context) ([]SupplierViewRow, error)
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build the analytics
// service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs an analytics service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) StockView(ctx context.Context) ([]StockViewRow, error) {
	var rows []StockViewRow
	err := s.db.DB().WithContext(ctx).Raw(`
SELECT
  p.id AS product_id,
  p.name AS product_name,
  COALESCE(SUM(se.quantity_added), 0) AS current_stock
FROM products p
LEFT JOIN stock_entries se ON se.product_id = p.id
GROUP BY p.id, p.name
ORDER BY p.name`).Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stock view")
	}
	return rows, nil
}

func (s *service) SalesView(ctx context.Context) ([]SalesViewRow, error) {
	var rows []SalesViewRow
	err := s.db.DB().WithContext(ctx).Raw(`
SELECT
  p.id AS product_id,
  p.name AS product_name,
  COALESCE(SUM(sa.quantity_sold), 0) AS total_sold,
  COALESCE(SUM(sa.total_amount), 0) AS total_revenue
FROM products p
JOIN sales sa ON sa.product_id = p.id
GROUP BY p.id, p.name
ORDER BY p.name`).Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sales view")
	}
	return rows, nil
}

func (s *service) SupplierView(ctx context.Context) ([]SupplierViewRow, error) {
	var rows []SupplierViewRow
	err := s.db.DB().WithContext(ctx).Raw(`
SELECT
  s.id AS supplier_id,
  s.name AS supplier_name,
  COALESCE(SUM(se.quantity_added), 0) AS total_stock
FROM suppliers s
LEFT JOIN stock_entries se ON se.supplier_id = s.id
GROUP BY s.id, s.name
ORDER BY s.name`).Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "supplier view")
	}
	return rows, nil
}

// Overview merges the stock and sales views by product id and layers the
// dashboard totals on top.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	stockRows, err := s.StockView(ctx)
	if err != nil {
		return nil, err
	}
	salesRows, err := s.SalesView(ctx)
	if err != nil {
		return nil, err
	}

	salesByProduct := make(map[uuid.UUID]SalesViewRow, len(salesRows))
	totalRevenue := decimal.Zero
	var totalSold int64
	for _, row := range salesRows {
		salesByProduct[row.ProductID] = row
		totalRevenue = totalRevenue.Add(row.TotalRevenue)
		totalSold += row.TotalSold
	}

	avgOrderValue := decimal.Zero
	if totalSold > 0 {
		avgOrderValue = totalRevenue.Div(decimal.NewFromInt(totalSold))
	}

	var lowStockCount int64
	chart := make([]ChartRow, 0, len(stockRows))
	for _, row := range stockRows {
		if row.CurrentStock < lowStockThreshold {
			lowStockCount++
		}
		sale := salesByProduct[row.ProductID]
		chart = append(chart, ChartRow{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			CurrentStock: row.CurrentStock,
			TotalSold:    sale.TotalSold,
			TotalRevenue: sale.TotalRevenue,
		})
	}

	recent, err := s.recentSales(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalRevenue:   totalRevenue.StringFixed(2),
		TotalItemsSold: totalSold,
		AvgOrderValue:  avgOrderValue.StringFixed(2),
		LowStockCount:  lowStockCount,
		RecentSales:    recent,
		ChartData:      chart,
	}, nil
}

func (s *service) recentSales(ctx context.Context) ([]RecentSale, error) {
	var rows []RecentSale
	err := s.db.DB().WithContext(ctx).Raw(`
SELECT
  sa.id,
  p.name AS product_name,
  sa.quantity_sold,
  sa.total_amount,
  sa.sale_date
FROM sales sa
JOIN products p ON p.id = sa.product_id
ORDER BY sa.sale_date DESC
LIMIT 5`).Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recent sales")
	}
	return rows, nil
}
