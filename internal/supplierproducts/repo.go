package supplierproducts

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository owns the supplier_products link table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a link repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every link joined with supplier and product names.
func (r *Repository) List(ctx context.Context) ([]LinkRow, error) {
	var rows []LinkRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
  sp.supplier_id,
  s.name AS supplier_name,
  sp.product_id,
  p.name AS product_name
FROM supplier_products sp
JOIN suppliers s ON s.id = sp.supplier_id
JOIN products p ON p.id = sp.product_id
ORDER BY s.name, p.name`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Exists reports whether the link is present.
func (r *Repository) Exists(ctx context.Context, supplierID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SupplierProduct{}).
		Where("supplier_id = ? AND product_id = ?", supplierID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a link row.
func (r *Repository) Create(ctx context.Context, supplierID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.SupplierProduct{
		SupplierID: supplierID,
		ProductID:  productID,
	}).Error
}

// Delete removes a link row and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, supplierID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("supplier_id = ? AND product_id = ?", supplierID, productID).
		Delete(&models.SupplierProduct{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByProduct removes every link for a product.
func (r *Repository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.SupplierProduct{}).Error
}

// DeleteBySupplier removes every link for a supplier.
func (r *Repository) DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Delete(&models.SupplierProduct{}).Error
}
