package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository owns the stock_entries ledger. Every quantity it reports is a
// sum over signed ledger rows, never a stored counter.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stock repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Insert appends a ledger row.
func (r *Repository) Insert(ctx context.Context, entry *models.StockEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// PairQuantity returns the available stock for a (product, supplier) pair.
func (r *Repository) PairQuantity(ctx context.Context, productID, supplierID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(quantity_added), 0)
FROM stock_entries
WHERE product_id = ? AND supplier_id = ?`, productID, supplierID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ProductAvailable returns the available stock for a product across suppliers.
func (r *Repository) ProductAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(quantity_added), 0)
FROM stock_entries
WHERE product_id = ?`, productID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// HoldingPairs lists the suppliers whose ledger sum for a product is positive,
// most recent ledger activity first. Sales drain stock in this order.
func (r *Repository) HoldingPairs(ctx context.Context, productID uuid.UUID) ([]PairBalance, error) {
	var rows []PairBalance
	err := r.db.WithContext(ctx).Raw(`
SELECT supplier_id, SUM(quantity_added) AS quantity
FROM stock_entries
WHERE product_id = ?
GROUP BY supplier_id
HAVING SUM(quantity_added) > 0
ORDER BY MAX(created_at) DESC, supplier_id DESC`, productID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PairLatest returns the most recent ledger row for a pair, or nil when the
// pair has no rows. Rows sharing a timestamp tiebreak on id so the result is
// stable.
func (r *Repository) PairLatest(ctx context.Context, productID, supplierID uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// LatestForProduct returns the most recent ledger row for a product, or nil.
// Sales resolve their unit price from this row.
func (r *Repository) LatestForProduct(ctx context.Context, productID uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ReplacePair deletes a pair's ledger rows and writes a single row holding the
// new quantity. Callers wrap this in a transaction.
func (r *Repository) ReplacePair(ctx context.Context, productID, supplierID uuid.UUID, quantity int, price decimal.Decimal) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		Delete(&models.StockEntry{}).Error; err != nil {
		return err
	}
	return r.Insert(ctx, &models.StockEntry{
		ProductID:     productID,
		SupplierID:    supplierID,
		QuantityAdded: quantity,
		Price:         price,
	})
}

// DeleteByProduct removes every ledger row for a product.
func (r *Repository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.StockEntry{}).Error
}

// DeleteBySupplier removes every ledger row for a supplier.
func (r *Repository) DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Delete(&models.StockEntry{}).Error
}

// SupplierDetail lists per-supplier quantities and latest prices for a product.
func (r *Repository) SupplierDetail(ctx context.Context, productID uuid.UUID) ([]SupplierDetailRow, error) {
	var rows []SupplierDetailRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
  s.id AS supplier_id,
  s.name AS supplier_name,
  COALESCE(SUM(se.quantity_added), 0) AS quantity,
  (SELECT price FROM stock_entries last
   WHERE last.product_id = ? AND last.supplier_id = s.id
   ORDER BY last.created_at DESC, last.id DESC LIMIT 1) AS price
FROM suppliers s
JOIN supplier_products sp ON sp.supplier_id = s.id AND sp.product_id = ?
LEFT JOIN stock_entries se ON se.supplier_id = s.id AND se.product_id = ?
GROUP BY s.id, s.name
ORDER BY s.name`, productID, productID, productID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
