package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the append-only sales table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Insert appends a sale row.
func (r *Repository) Insert(ctx context.Context, sale *models.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

// ListWithProducts returns all sales joined with product names, newest first.
func (r *Repository) ListWithProducts(ctx context.Context) ([]SaleRow, error) {
	var rows []SaleRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
  s.id,
  s.product_id,
  p.name AS product_name,
  s.quantity_sold,
  s.total_amount,
  s.sale_date,
  s.creator_role
FROM sales s
JOIN products p ON p.id = s.product_id
ORDER BY s.sale_date DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByProduct removes every sale for a product.
func (r *Repository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.Sale{}).Error
}
