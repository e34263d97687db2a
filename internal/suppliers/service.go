package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/internal/stock"
	"github.com/lcanales/stockdeck-backend/internal/supplierproducts"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the suppliers controller.
type Service interface {
	List(ctx context.Context) ([]SupplierRow, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Create(ctx context.Context, req CreateSupplierRequest) (*models.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Products(ctx context.Context, id uuid.UUID) ([]ProductRef, error)
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a supplier service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a supplier service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]SupplierRow, error) {
	rows, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list suppliers")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := NewRepository(s.db.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
	}
	return supplier, nil
}

func (s *service) Create(ctx context.Context, req CreateSupplierRequest) (*models.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	supplier := &models.Supplier{
		Name:        name,
		ContactInfo: req.ContactInfo,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByName(ctx, name); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier name")
		}
		if err := repo.Create(ctx, supplier); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "supplier name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		supplier, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
		}

		if other, err := repo.FindByName(ctx, name); err == nil && other.ID != id {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier name already exists")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check supplier name")
		}

		supplier.Name = name
		supplier.ContactInfo = req.ContactInfo
		if err := repo.Update(ctx, supplier); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supplier")
		}
		return nil
	})
}

// Delete removes the supplier's ledger rows and links before the supplier
// itself, in one transaction. Sales reference products, not suppliers, so
// they are untouched.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
		}
		if err := stock.NewRepository(tx).DeleteBySupplier(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stock")
		}
		if err := supplierproducts.NewRepository(tx).DeleteBySupplier(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product links")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete supplier")
		}
		return nil
	})
}

func (s *service) Products(ctx context.Context, id uuid.UUID) ([]ProductRef, error) {
	repo := NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
	}
	refs, err := repo.ProductsOf(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier products")
	}
	return refs, nil
}
