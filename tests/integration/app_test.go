package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shopmgmt/backend/internal/application/catalog"
	identityapp "github.com/shopmgmt/backend/internal/application/identity"
	inventoryapp "github.com/shopmgmt/backend/internal/application/inventory"
	partnerapp "github.com/shopmgmt/backend/internal/application/partner"
	reportapp "github.com/shopmgmt/backend/internal/application/report"
	tradeapp "github.com/shopmgmt/backend/internal/application/trade"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/auth"
	"github.com/shopmgmt/backend/internal/infrastructure/cache"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence"
	"github.com/shopmgmt/backend/internal/interfaces/http/handler"
	"github.com/shopmgmt/backend/internal/interfaces/http/middleware"
	"github.com/shopmgmt/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testApp wires the services and the HTTP stack the way cmd/server does,
// minus redis and telemetry
type testApp struct {
	DB       *TestDB
	Engine   *gin.Engine
	Auth     *identityapp.AuthService
	Sales    *tradeapp.SaleService
	Products *catalogapp.ProductService
	Category *catalogapp.CategoryService
	History  *persistence.GormProductHistoryRepository
	ProductR *persistence.GormProductRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	tdb := NewTestDB(t)
	db := tdb.DB
	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	historyRepo := persistence.NewGormProductHistoryRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-access-secret-0123456789",
		RefreshSecret:          "integration-refresh-secret-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-backend-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, saleRepo)
	saleService := tradeapp.NewSaleService(persistence.NewGormSaleTransactionScope(db), saleRepo)
	stockService := inventoryapp.NewStockService(persistence.NewGormStockTransactionScope(db), productRepo, historyRepo)
	inventoryService := inventoryapp.NewInventoryService(persistence.NewGormInventoryReportRepository(db), productRepo)
	reportService := reportapp.NewReportService(persistence.NewGormSalesReportRepository(db))

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	router.NewRouter(engine).
		RegisterShopRoutes(router.Handlers{
			Auth:      handler.NewAuthHandler(authService),
			Sale:      handler.NewSaleHandler(saleService),
			Product:   handler.NewProductHandler(productService, stockService),
			Category:  handler.NewCategoryHandler(categoryService),
			Customer:  handler.NewCustomerHandler(partnerapp.NewCustomerService(customerRepo, saleRepo)),
			Supplier:  handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo, productRepo)),
			Inventory: handler.NewInventoryHandler(inventoryService),
			Report:    handler.NewReportHandler(reportService),
			System:    handler.NewSystemHandler(&persistence.Database{DB: db}, "test"),
		}, router.RouteMiddleware{
			Idempotency: middleware.Idempotency(store, shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, log),
		}).
		Setup()

	return &testApp{
		DB:       tdb,
		Engine:   engine,
		Auth:     authService,
		Sales:    saleService,
		Products: productService,
		Category: categoryService,
		History:  historyRepo,
		ProductR: productRepo,
	}
}

// shop is a registered owner and their access token
type shop struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Token    string
}

func (s shop) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.Token}
}

// registerShop signs up a fresh owner. Every test uses its own shops, so
// tests never see each other's rows.
func (a *testApp) registerShop(t *testing.T) shop {
	t.Helper()
	id := uuid.NewString()[:8]
	result, err := a.Auth.Register(context.Background(), identityapp.RegisterInput{
		Email:    fmt.Sprintf("owner-%s@shop.test", id),
		Password: "correct-horse-battery",
		Name:     "Owner " + id,
		ShopName: "Shop " + id,
	})
	require.NoError(t, err)
	return shop{TenantID: result.User.TenantID, UserID: result.User.ID, Token: result.AccessToken}
}

// stockedProduct creates a category and a product holding stock units
func (a *testApp) stockedProduct(t *testing.T, s shop, stock int) *catalogapp.ProductResponse {
	t.Helper()
	ctx := context.Background()

	category, err := a.Category.Create(ctx, s.TenantID, s.UserID, catalogapp.CreateCategoryRequest{
		Name: "Pantry " + uuid.NewString()[:8],
	})
	require.NoError(t, err)

	product, err := a.Products.Create(ctx, s.TenantID, s.UserID, catalogapp.CreateProductRequest{
		Name:         "Coffee Beans " + uuid.NewString()[:8],
		CategoryID:   category.ID,
		BuyingPrice:  decimal.NewFromInt(6),
		SellingPrice: decimal.NewFromInt(10),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return product
}

func (a *testApp) currentStock(t *testing.T, s shop, productID uuid.UUID) int {
	t.Helper()
	product, err := a.ProductR.FindByIDForTenant(context.Background(), s.TenantID, productID)
	require.NoError(t, err)
	return product.CurrentStock
}
