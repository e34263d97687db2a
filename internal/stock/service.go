package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the stock controller.
type Service interface {
	PairDetail(ctx context.Context, productID, supplierID uuid.UUID) (*PairDetail, error)
	Replace(ctx context.Context, productID, supplierID uuid.UUID, quantity int) error
	Add(ctx context.Context, input AddInput) error
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a stock service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a stock service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) PairDetail(ctx context.Context, productID, supplierID uuid.UUID) (*PairDetail, error) {
	if _, err := s.findProduct(ctx, s.db.DB(), productID); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, s.db.DB(), supplierID); err != nil {
		return nil, err
	}

	repo := NewRepository(s.db.DB())
	quantity, err := repo.PairQuantity(ctx, productID, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum stock")
	}

	detail := &PairDetail{
		ProductID:  productID,
		SupplierID: supplierID,
		Quantity:   quantity,
	}
	latest, err := repo.PairLatest(ctx, productID, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "latest stock price")
	}
	if latest != nil {
		detail.Price = decimal.NewNullDecimal(latest.Price)
	}
	return detail, nil
}

// Replace implements PUT /api/stock/{productId}/{supplierId}: the pair's
// ledger rows are deleted and reinserted as one row with the new quantity.
func (s *service) Replace(ctx context.Context, productID, supplierID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.findProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		if err := s.checkSupplier(ctx, tx, supplierID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		price := product.Price
		latest, err := repo.PairLatest(ctx, productID, supplierID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "latest stock price")
		}
		if latest != nil {
			price = latest.Price
		}

		if err := repo.ReplacePair(ctx, productID, supplierID, quantity, price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace stock")
		}
		return nil
	})
}

// Add appends a restock row.
func (s *service) Add(ctx context.Context, input AddInput) error {
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.findProduct(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		if err := s.checkSupplier(ctx, tx, input.SupplierID); err != nil {
			return err
		}

		price := product.Price
		if input.Price != nil {
			price = *input.Price
		}

		if err := NewRepository(tx).Insert(ctx, &models.StockEntry{
			ProductID:     input.ProductID,
			SupplierID:    input.SupplierID,
			QuantityAdded: input.Quantity,
			Price:         price,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert stock")
		}
		return nil
	})
}

func (s *service) findProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return &product, nil
}

func (s *service) checkSupplier(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	var supplier models.Supplier
	if err := tx.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
	}
	return nil
}
