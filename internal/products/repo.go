package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the products table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID returns a product or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName returns a product by its unique name or gorm.ErrRecordNotFound.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListWithStock returns every product with its summed ledger quantity. The
// join is a LEFT JOIN so zero-stock products still appear.
func (r *Repository) ListWithStock(ctx context.Context) ([]ProductRow, error) {
	var rows []ProductRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
  p.id,
  p.name,
  p.category,
  p.price,
  COALESCE(SUM(se.quantity_added), 0) AS current_stock,
  p.created_at
FROM products p
LEFT JOIN stock_entries se ON se.product_id = p.id
GROUP BY p.id, p.name, p.category, p.price, p.created_at
ORDER BY p.name`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable product fields.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":     product.Name,
			"category": product.Category,
			"price":    product.Price,
		}).Error
}

// Delete removes the product row itself. Dependent rows are the caller's
// responsibility; there is no database-level cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

// SuppliersOf lists the suppliers linked to a product.
func (r *Repository) SuppliersOf(ctx context.Context, productID uuid.UUID) ([]SupplierRef, error) {
	var rows []SupplierRef
	err := r.db.WithContext(ctx).Raw(`
SELECT s.id, s.name, s.contact_info
FROM suppliers s
JOIN supplier_products sp ON sp.supplier_id = s.id
WHERE sp.product_id = ?
ORDER BY s.name`, productID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
