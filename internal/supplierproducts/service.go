package supplierproducts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the supplier-products controller.
type Service interface {
	List(ctx context.Context) ([]LinkRow, error)
	Link(ctx context.Context, supplierID, productID uuid.UUID) error
	Unlink(ctx context.Context, supplierID, productID uuid.UUID) error
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies required to build a link service.
type ServiceParams struct {
	DB *db.Client
}

// NewService constructs a supplier-products service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context) ([]LinkRow, error) {
	rows, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list links")
	}
	return rows, nil
}

func (s *service) Link(ctx context.Context, supplierID, productID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := checkPair(ctx, tx, supplierID, productID); err != nil {
			return err
		}
		repo := NewRepository(tx)
		exists, err := repo.Exists(ctx, supplierID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check link")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "link already exists")
		}
		if err := repo.Create(ctx, supplierID, productID); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "link already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create link")
		}
		return nil
	})
}

func (s *service) Unlink(ctx context.Context, supplierID, productID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := checkPair(ctx, tx, supplierID, productID); err != nil {
			return err
		}
		deleted, err := NewRepository(tx).Delete(ctx, supplierID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete link")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil
	})
}

func checkPair(ctx context.Context, tx *gorm.DB, supplierID, productID uuid.UUID) error {
	var supplier models.Supplier
	if err := tx.WithContext(ctx).First(&supplier, "id = ?", supplierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup supplier")
	}
	var product models.Product
	if err := tx.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return nil
}
