package suppliers

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the suppliers table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a supplier repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a supplier row.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(supplier).Error
}

// FindByID returns a supplier or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByName returns a supplier by its unique name or gorm.ErrRecordNotFound.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns every supplier ordered by name.
func (r *Repository) List(ctx context.Context) ([]SupplierRow, error) {
	var rows []SupplierRow
	err := r.db.WithContext(ctx).Raw(`
SELECT id, name, contact_info, created_at
FROM suppliers
ORDER BY name`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable supplier fields.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Model(&models.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]any{
			"name":         supplier.Name,
			"contact_info": supplier.ContactInfo,
		}).Error
}

// Delete removes the supplier row itself. Dependent rows are the caller's
// responsibility; there is no database-level cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Supplier{}).Error
}

// ProductsOf lists the products linked to a supplier with this supplier's
// share of each product's ledger.
func (r *Repository) ProductsOf(ctx context.Context, supplierID uuid.UUID) ([]ProductRef, error) {
	var rows []ProductRef
	err := r.db.WithContext(ctx).Raw(`
SELECT
  p.id,
  p.name,
  p.category,
  p.price,
  COALESCE(SUM(se.quantity_added), 0) AS quantity
FROM products p
JOIN supplier_products sp ON sp.product_id = p.id AND sp.supplier_id = ?
LEFT JOIN stock_entries se ON se.product_id = p.id AND se.supplier_id = ?
GROUP BY p.id, p.name, p.category, p.price
ORDER BY p.name`, supplierID, supplierID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
