package sales

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/internal/stock"
	"github.com/lcanales/stockdeck-backend/pkg/db"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:sales_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Product{},
		&models.Supplier{},
		&models.SupplierProduct{},
		&models.StockEntry{},
		&models.Sale{},
	))
	return db.NewFromGorm(conn)
}

func seedProduct(t *testing.T, client *db.Client, name, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "General",
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func seedSupplier(t *testing.T, client *db.Client, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{ID: uuid.New(), Name: name}
	require.NoError(t, client.DB().Create(supplier).Error)
	return supplier
}

func seedStock(t *testing.T, client *db.Client, productID, supplierID uuid.UUID, quantity int, price string, at time.Time) {
	t.Helper()
	require.NoError(t, client.DB().Create(&models.StockEntry{
		ID:            uuid.New(),
		ProductID:     productID,
		SupplierID:    supplierID,
		QuantityAdded: quantity,
		Price:         decimal.RequireFromString(price),
		CreatedAt:     at,
	}).Error)
}

func newSalesService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{DB: client})
	require.NoError(t, err)
	return svc
}

func TestCreateSaleConsumesLedger(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newSalesService(t, client)

	product := seedProduct(t, client, "Widget", "10")
	supplier := seedSupplier(t, client, "Acme")
	base := time.Now().UTC().Add(-time.Hour)
	seedStock(t, client, product.ID, supplier.ID, 50, "10", base)
	seedStock(t, client, product.ID, supplier.ID, 10, "12", base.Add(time.Minute))

	userID := uuid.New()
	role := "Manager"
	result, err := svc.Create(ctx, CreateInput{
		ProductID:   product.ID,
		Quantity:    60,
		CreatedBy:   &userID,
		CreatorRole: &role,
	})
	require.NoError(t, err)

	// unit price comes from the newest ledger row
	require.True(t, result.TotalAmount.Equal(decimal.RequireFromString("720")),
		"expected total 720, got %s", result.TotalAmount)

	available, err := stock.NewRepository(client.DB()).ProductAvailable(ctx, product.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, available)

	var consuming []models.StockEntry
	require.NoError(t, client.DB().
		Where("product_id = ? AND quantity_added < 0", product.ID).
		Find(&consuming).Error)
	require.Len(t, consuming, 1)
	require.Equal(t, -60, consuming[0].QuantityAdded)
	require.Equal(t, supplier.ID, consuming[0].SupplierID)
	require.True(t, consuming[0].Price.Equal(decimal.RequireFromString("12")))

	var sale models.Sale
	require.NoError(t, client.DB().First(&sale, "id = ?", result.SaleID).Error)
	require.Equal(t, 60, sale.QuantitySold)
	require.NotNil(t, sale.CreatedBy)
	require.Equal(t, userID, *sale.CreatedBy)
	require.NotNil(t, sale.CreatorRole)
	require.Equal(t, "Manager", *sale.CreatorRole)
}

func TestCreateSaleSplitsAcrossSuppliers(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newSalesService(t, client)

	product := seedProduct(t, client, "Widget", "10")
	acme := seedSupplier(t, client, "Acme")
	globex := seedSupplier(t, client, "Globex")
	base := time.Now().UTC().Add(-time.Hour)
	seedStock(t, client, product.ID, acme.ID, 5, "10", base)
	seedStock(t, client, product.ID, globex.ID, 10, "12", base.Add(time.Minute))

	result, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 12})
	require.NoError(t, err)
	require.True(t, result.TotalAmount.Equal(decimal.RequireFromString("144")),
		"expected total 144, got %s", result.TotalAmount)

	// the newest holder drains fully, the remainder comes from the older one,
	// and neither pair's ledger sum dips below zero
	repo := stock.NewRepository(client.DB())
	globexQty, err := repo.PairQuantity(ctx, product.ID, globex.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, globexQty)
	acmeQty, err := repo.PairQuantity(ctx, product.ID, acme.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, acmeQty)

	var consuming []models.StockEntry
	require.NoError(t, client.DB().
		Where("product_id = ? AND quantity_added < 0", product.ID).
		Find(&consuming).Error)
	require.Len(t, consuming, 2)
	for _, row := range consuming {
		require.True(t, row.Price.Equal(decimal.RequireFromString("12")),
			"expected sale unit price 12 on consuming row, got %s", row.Price)
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newSalesService(t, client)

	product := seedProduct(t, client, "Widget", "10")
	supplier := seedSupplier(t, client, "Acme")
	seedStock(t, client, product.ID, supplier.ID, 5, "10", time.Now().UTC())

	_, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 6})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Contains(t, err.Error(), "insufficient stock")

	// a rejected sale must not touch either table
	var saleCount int64
	require.NoError(t, client.DB().Model(&models.Sale{}).Count(&saleCount).Error)
	require.EqualValues(t, 0, saleCount)

	available, err := stock.NewRepository(client.DB()).ProductAvailable(ctx, product.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, available)
}

func TestCreateSaleDrainedProductRejectsNextSale(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newSalesService(t, client)

	product := seedProduct(t, client, "Widget", "10")
	supplier := seedSupplier(t, client, "Acme")
	seedStock(t, client, product.ID, supplier.ID, 3, "10", time.Now().UTC())

	_, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient stock")
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	client := newTestClient(t)
	svc := newSalesService(t, client)

	_, err := svc.Create(context.Background(), CreateInput{ProductID: uuid.New(), Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateSaleNonPositiveQuantity(t *testing.T) {
	client := newTestClient(t)
	svc := newSalesService(t, client)

	for _, quantity := range []int{0, -1} {
		_, err := svc.Create(context.Background(), CreateInput{ProductID: uuid.New(), Quantity: quantity})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newSalesService(t, client)

	product := seedProduct(t, client, "Widget", "10")
	base := time.Now().UTC().Add(-time.Hour)
	repo := NewRepository(client.DB())
	require.NoError(t, repo.Insert(ctx, &models.Sale{
		ProductID:    product.ID,
		QuantitySold: 1,
		TotalAmount:  decimal.RequireFromString("10"),
		SaleDate:     base,
	}))
	require.NoError(t, repo.Insert(ctx, &models.Sale{
		ProductID:    product.ID,
		QuantitySold: 2,
		TotalAmount:  decimal.RequireFromString("20"),
		SaleDate:     base.Add(time.Minute),
	}))

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[0].QuantitySold)
	require.Equal(t, "Widget", rows[0].ProductName)
	require.Equal(t, 1, rows[1].QuantitySold)
}
