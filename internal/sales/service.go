package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcanales/stockdeck-backend/internal/stock"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const insufficientStockMessage = "insufficient stock"

// Service defines the behavior needed by the sales controller.
type Service interface {
	List(ctx context.Context) ([]SaleRow, error)
	Create(ctx context.Context, input CreateInput) (*CreateSaleResult, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a sales service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a sales service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]SaleRow, error) {
	rows, err := NewRepository(s.db.DB()).ListWithProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return rows, nil
}

// Create records a sale. The availability check, the consuming ledger row and
// the sale row share one transaction so a failed step leaves both tables
// untouched. Two concurrent sales can still both pass the check before either
// commits; the read is not serialized against other transactions.
func (s *service) Create(ctx context.Context, input CreateInput) (*CreateSaleResult, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result CreateSaleResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.WithContext(ctx).First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}

		stockRepo := stock.NewRepository(tx)
		available, err := stockRepo.ProductAvailable(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum stock")
		}
		if available < int64(input.Quantity) {
			return pkgerrors.New(pkgerrors.CodeValidation, insufficientStockMessage)
		}

		// available > 0 implies at least one ledger row exists. The latest
		// row supplies the unit price for the whole sale.
		latest, err := stockRepo.LatestForProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "latest stock row")
		}
		if latest == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, insufficientStockMessage)
		}

		unitPrice := latest.Price
		total := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

		// The consuming quantity is split across suppliers holding positive
		// balances, most recent ledger activity first. Each row is capped at
		// its pair's balance so no (product, supplier) sum goes below zero.
		pairs, err := stockRepo.HoldingPairs(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pair balances")
		}
		remaining := int64(input.Quantity)
		for _, pair := range pairs {
			if remaining == 0 {
				break
			}
			take := pair.Quantity
			if take > remaining {
				take = remaining
			}
			if err := stockRepo.Insert(ctx, &models.StockEntry{
				ProductID:     input.ProductID,
				SupplierID:    pair.SupplierID,
				QuantityAdded: -int(take),
				Price:         unitPrice,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert consuming stock row")
			}
			remaining -= take
		}
		if remaining > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, insufficientStockMessage)
		}

		sale := &models.Sale{
			ProductID:    input.ProductID,
			QuantitySold: input.Quantity,
			TotalAmount:  total,
			CreatedBy:    input.CreatedBy,
			CreatorRole:  input.CreatorRole,
		}
		if err := NewRepository(tx).Insert(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert sale")
		}

		result = CreateSaleResult{SaleID: sale.ID, TotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
