package products

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/api/validators"
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
	dsn := fmt.Sprintf("file:products_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
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

func newProductService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{DB: client})
	require.NoError(t, err)
	return svc
}

func seedSupplier(t *testing.T, client *db.Client, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{ID: uuid.New(), Name: name}
	require.NoError(t, client.DB().Create(supplier).Error)
	return supplier
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), "unexpected code for %v", err)
}

func TestCreateProductZeroPrice(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	// a zero price must survive body validation
	req := httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"name":"Flyer","category":"Promo","price":0,"suppliers":[]}`))
	var payload CreateProductRequest
	require.NoError(t, validators.DecodeJSONBody(req, &payload))

	product, err := svc.Create(ctx, Actor{}, payload)
	require.NoError(t, err)
	require.True(t, product.Price.IsZero())

	// negative prices are still rejected
	_, err = svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:     "Bad",
		Category: "Promo",
		Price:    decimal.RequireFromString("-1"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateProductWithSuppliers(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	globex := seedSupplier(t, client, "Globex")
	userID := uuid.New()
	role := "Admin"
	entryPrice := decimal.RequireFromString("8.75")

	product, err := svc.Create(ctx, Actor{UserID: &userID, Role: &role}, CreateProductRequest{
		Name:     "Widget",
		Category: "General",
		Price:    decimal.RequireFromString("9.99"),
		Suppliers: []SupplierEntry{
			{SupplierID: acme.ID, Quantity: 10, Price: &entryPrice},
			{SupplierID: globex.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, product.ID)
	require.NotNil(t, product.CreatedBy)
	require.Equal(t, userID, *product.CreatedBy)

	var linkCount int64
	require.NoError(t, client.DB().Model(&models.SupplierProduct{}).
		Where("product_id = ?", product.ID).Count(&linkCount).Error)
	require.EqualValues(t, 2, linkCount)

	var entries []models.StockEntry
	require.NoError(t, client.DB().
		Where("product_id = ?", product.ID).Find(&entries).Error)
	require.Len(t, entries, 2)
	bySupplier := map[uuid.UUID]models.StockEntry{}
	for _, entry := range entries {
		bySupplier[entry.SupplierID] = entry
	}
	require.True(t, bySupplier[acme.ID].Price.Equal(entryPrice))
	require.Equal(t, 10, bySupplier[acme.ID].QuantityAdded)
	// entries without a price use the product list price
	require.True(t, bySupplier[globex.ID].Price.Equal(decimal.RequireFromString("9.99")))
	require.Equal(t, 5, bySupplier[globex.ID].QuantityAdded)
}

func TestCreateProductDuplicateName(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	_, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:     "Widget",
		Category: "General",
		Price:    decimal.RequireFromString("1"),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:     "Widget",
		Category: "Other",
		Price:    decimal.RequireFromString("2"),
	})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateProductUnknownSupplierRollsBack(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	_, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:     "Widget",
		Category: "General",
		Price:    decimal.RequireFromString("5"),
		Suppliers: []SupplierEntry{
			{SupplierID: acme.ID, Quantity: 10},
			{SupplierID: uuid.New(), Quantity: 3},
		},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	// nothing from the failed create survives
	var productCount, linkCount, stockCount int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, client.DB().Model(&models.SupplierProduct{}).Count(&linkCount).Error)
	require.NoError(t, client.DB().Model(&models.StockEntry{}).Count(&stockCount).Error)
	require.EqualValues(t, 0, productCount)
	require.EqualValues(t, 0, linkCount)
	require.EqualValues(t, 0, stockCount)
}

func TestUpdateProductReplacesPairLedger(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	product, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:      "Widget",
		Category:  "General",
		Price:     decimal.RequireFromString("9.99"),
		Suppliers: []SupplierEntry{{SupplierID: acme.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, product.ID, UpdateProductRequest{
		Name:      "Widget Pro",
		Category:  "Premium",
		Price:     decimal.RequireFromString("14.99"),
		Suppliers: []SupplierEntry{{SupplierID: acme.ID, Quantity: 25}},
	}))

	row, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget Pro", row.Name)
	require.Equal(t, "Premium", row.Category)
	require.True(t, row.Price.Equal(decimal.RequireFromString("14.99")))
	require.EqualValues(t, 25, row.CurrentStock)

	var entryCount int64
	require.NoError(t, client.DB().Model(&models.StockEntry{}).
		Where("product_id = ? AND supplier_id = ?", product.ID, acme.ID).
		Count(&entryCount).Error)
	require.EqualValues(t, 1, entryCount)
}

func TestUpdateProductNameConflict(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	_, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name: "Widget", Category: "General", Price: decimal.RequireFromString("1"),
	})
	require.NoError(t, err)
	other, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name: "Gadget", Category: "General", Price: decimal.RequireFromString("2"),
	})
	require.NoError(t, err)

	err = svc.Update(ctx, other.ID, UpdateProductRequest{
		Name: "Widget", Category: "General", Price: decimal.RequireFromString("2"),
	})
	requireCode(t, err, pkgerrors.CodeConflict)

	// keeping its own name is not a conflict
	require.NoError(t, svc.Update(ctx, other.ID, UpdateProductRequest{
		Name: "Gadget", Category: "Other", Price: decimal.RequireFromString("3"),
	}))
}

func TestDeleteProductCascades(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	product, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:      "Widget",
		Category:  "General",
		Price:     decimal.RequireFromString("10"),
		Suppliers: []SupplierEntry{{SupplierID: acme.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.NoError(t, client.DB().Create(&models.Sale{
		ID:           uuid.New(),
		ProductID:    product.ID,
		QuantitySold: 2,
		TotalAmount:  decimal.RequireFromString("20"),
	}).Error)

	require.NoError(t, svc.Delete(ctx, product.ID))

	var productCount, linkCount, stockCount, saleCount int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, client.DB().Model(&models.SupplierProduct{}).Count(&linkCount).Error)
	require.NoError(t, client.DB().Model(&models.StockEntry{}).Count(&stockCount).Error)
	require.NoError(t, client.DB().Model(&models.Sale{}).Count(&saleCount).Error)
	require.EqualValues(t, 0, productCount)
	require.EqualValues(t, 0, linkCount)
	require.EqualValues(t, 0, stockCount)
	require.EqualValues(t, 0, saleCount)

	// the supplier itself survives
	var supplierCount int64
	require.NoError(t, client.DB().Model(&models.Supplier{}).Count(&supplierCount).Error)
	require.EqualValues(t, 1, supplierCount)

	err = svc.Delete(ctx, product.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListIncludesZeroStockProducts(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	_, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:      "Widget",
		Category:  "General",
		Price:     decimal.RequireFromString("10"),
		Suppliers: []SupplierEntry{{SupplierID: acme.ID, Quantity: 7}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Actor{}, CreateProductRequest{
		Name: "Gadget", Category: "General", Price: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// ordered by name
	require.Equal(t, "Gadget", rows[0].Name)
	require.EqualValues(t, 0, rows[0].CurrentStock)
	require.Equal(t, "Widget", rows[1].Name)
	require.EqualValues(t, 7, rows[1].CurrentStock)
}

func TestSuppliersAndStockDetail(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	svc := newProductService(t, client)

	acme := seedSupplier(t, client, "Acme")
	product, err := svc.Create(ctx, Actor{}, CreateProductRequest{
		Name:      "Widget",
		Category:  "General",
		Price:     decimal.RequireFromString("10"),
		Suppliers: []SupplierEntry{{SupplierID: acme.ID, Quantity: 12}},
	})
	require.NoError(t, err)

	refs, err := svc.Suppliers(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "Acme", refs[0].Name)

	detail, err := svc.StockDetail(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, detail, 1)
	require.Equal(t, acme.ID, detail[0].SupplierID)
	require.EqualValues(t, 12, detail[0].Quantity)
	require.True(t, detail[0].Price.Valid)
	require.True(t, detail[0].Price.Decimal.Equal(decimal.RequireFromString("10")))

	_, err = svc.Suppliers(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetUnknownProduct(t *testing.T) {
	client := newTestClient(t)
	svc := newProductService(t, client)

	_, err := svc.Get(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}
