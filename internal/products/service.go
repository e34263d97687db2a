package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/internal/sales"
	"github.com/lcanales/stockdeck-backend/internal/stock"
	"github.com/lcanales/stockdeck-backend/internal/supplierproducts"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the products controller.
type Service interface {
	List(ctx context.Context) ([]ProductRow, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductRow, error)
	Create(ctx context.Context, actor Actor, req CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Suppliers(ctx context.Context, id uuid.UUID) ([]SupplierRef, error)
	StockDetail(ctx context.Context, id uuid.UUID) ([]stock.SupplierDetailRow, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a product service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]ProductRow, error) {
	rows, err := NewRepository(s.db.DB()).ListWithStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductRow, error) {
	repo := NewRepository(s.db.DB())
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	available, err := stock.NewRepository(s.db.DB()).ProductAvailable(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum stock")
	}
	return &ProductRow{
		ID:           product.ID,
		Name:         product.Name,
		Category:     product.Category,
		Price:        product.Price,
		CurrentStock: available,
		CreatedAt:    product.CreatedAt,
	}, nil
}

// Create inserts the product, then one link row and one initial ledger row
// per supplier entry, all-or-nothing.
func (s *service) Create(ctx context.Context, actor Actor, req CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		Name:        name,
		Category:    req.Category,
		Price:       req.Price,
		CreatedBy:   actor.UserID,
		CreatorRole: actor.Role,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByName(ctx, name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product name")
		}

		if err := repo.Create(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}

		linkRepo := supplierproducts.NewRepository(tx)
		stockRepo := stock.NewRepository(tx)
		for _, entry := range req.Suppliers {
			if err := checkSupplier(ctx, tx, entry.SupplierID); err != nil {
				return err
			}
			if err := linkRepo.Create(ctx, entry.SupplierID, product.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier link")
			}
			if err := stockRepo.Insert(ctx, &models.StockEntry{
				ProductID:     product.ID,
				SupplierID:    entry.SupplierID,
				QuantityAdded: entry.Quantity,
				Price:         entryPrice(entry, req.Price),
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create initial stock")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the product fields and, per supplied supplier entry,
// upserts the link and replaces that pair's ledger rows.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}

		if other, err := repo.FindByName(ctx, name); err == nil && other.ID != id {
			return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product name")
		}

		product.Name = name
		product.Category = req.Category
		product.Price = req.Price
		if err := repo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}

		linkRepo := supplierproducts.NewRepository(tx)
		stockRepo := stock.NewRepository(tx)
		for _, entry := range req.Suppliers {
			if err := checkSupplier(ctx, tx, entry.SupplierID); err != nil {
				return err
			}
			linked, err := linkRepo.Exists(ctx, entry.SupplierID, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier link")
			}
			if !linked {
				if err := linkRepo.Create(ctx, entry.SupplierID, id); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier link")
				}
			}
			if err := stockRepo.ReplacePair(ctx, id, entry.SupplierID, entry.Quantity, entryPrice(entry, req.Price)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace stock")
			}
		}
		return nil
	})
}

// Delete removes the product's sales, ledger rows and links before the
// product itself, in one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}
		if err := sales.NewRepository(tx).DeleteByProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sales")
		}
		if err := stock.NewRepository(tx).DeleteByProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stock")
		}
		if err := supplierproducts.NewRepository(tx).DeleteByProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete supplier links")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
		}
		return nil
	})
}

func (s *service) Suppliers(ctx context.Context, id uuid.UUID) ([]SupplierRef, error) {
	repo := NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	refs, err := repo.SuppliersOf(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product suppliers")
	}
	return refs, nil
}

func (s *service) StockDetail(ctx context.Context, id uuid.UUID) ([]stock.SupplierDetailRow, error) {
	if _, err := NewRepository(s.db.DB()).FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	rows, err := stock.NewRepository(s.db.DB()).SupplierDetail(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stock detail")
	}
	return rows, nil
}

func entryPrice(entry SupplierEntry, fallback decimal.Decimal) decimal.Decimal {
	if entry.Price != nil {
		return *entry.Price
	}
	return fallback
}

func checkSupplier(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	var supplier models.Supplier
	if err := tx.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
	}
	return nil
}
