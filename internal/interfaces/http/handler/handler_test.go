package handler

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shopmgmt/backend/internal/application/catalog"
	"github.com/shopmgmt/backend/internal/application/inventory"
	"github.com/shopmgmt/backend/internal/application/partner"
	"github.com/shopmgmt/backend/internal/application/report"
	"github.com/shopmgmt/backend/internal/application/trade"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence"
	"github.com/shopmgmt/backend/internal/interfaces/http/middleware"
	"github.com/shopmgmt/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testShop wires the real services over an in-memory database and exposes
// them through an engine that treats every request as the given shop.
type testShop struct {
	db       *gorm.DB
	tenantID uuid.UUID

	categories *appcatalog.CategoryService
	products   *appcatalog.ProductService
	customers  *partner.CustomerService
	suppliers  *partner.SupplierService
	stock      *inventory.StockService
	inventory  *inventory.InventoryService
	sales      *trade.SaleService
	reports    *report.ReportService
}

func newTestShop(t *testing.T) *testShop {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	historyRepo := persistence.NewGormProductHistoryRepository(db)

	return &testShop{
		db:         db,
		tenantID:   testutil.TestTenantID(),
		categories: appcatalog.NewCategoryService(categoryRepo, productRepo),
		products:   appcatalog.NewProductService(productRepo, categoryRepo, supplierRepo, saleRepo),
		customers:  partner.NewCustomerService(customerRepo, saleRepo),
		suppliers:  partner.NewSupplierService(supplierRepo, productRepo),
		stock:      inventory.NewStockService(persistence.NewGormStockTransactionScope(db), productRepo, historyRepo),
		inventory:  inventory.NewInventoryService(persistence.NewGormInventoryReportRepository(db), productRepo),
		sales:      trade.NewSaleService(persistence.NewGormSaleTransactionScope(db), saleRepo),
		reports:    report.NewReportService(persistence.NewGormSalesReportRepository(db)),
	}
}

// engine returns an engine whose requests are authenticated as shop
func (s *testShop) engine(shop uuid.UUID) *gin.Engine {
	return testutil.NewEngine(middleware.RequestID(), asShop(shop))
}

func asShop(shop uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, shop.String())
		c.Set(middleware.JWTUserIDKey, shop.String())
		c.Next()
	}
}

func (s *testShop) createProduct(t *testing.T, name string, stock int, buying, selling int64) *appcatalog.ProductResponse {
	t.Helper()
	ctx := context.Background()

	category, err := s.categories.Create(ctx, s.tenantID, s.tenantID, appcatalog.CreateCategoryRequest{Name: name + " category"})
	require.NoError(t, err)

	product, err := s.products.Create(ctx, s.tenantID, s.tenantID, appcatalog.CreateProductRequest{
		Name:         name,
		CategoryID:   category.ID,
		BuyingPrice:  decimal.NewFromInt(buying),
		SellingPrice: decimal.NewFromInt(selling),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return product
}

func (s *testShop) productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	product, err := s.products.GetByID(context.Background(), s.tenantID, id)
	require.NoError(t, err)
	return product.CurrentStock
}
