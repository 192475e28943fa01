package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestDomainGroup_RegisterRoutes(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("catalog", "/catalog").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "catalog")
			c.Next()
		})
	g.Group("products", "/products").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
		PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
		PATCH("/:id", func(c *gin.Context) { c.String(http.StatusOK, "patched") }).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/catalog", g.Prefix())

	w := serve(engine, http.MethodGet, "/api/v1/catalog/products")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())
	assert.Equal(t, "catalog", w.Header().Get("X-Group"))

	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/catalog/products").Code)
	assert.Equal(t, "42", serve(engine, http.MethodPut, "/api/v1/catalog/products/42").Body.String())
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPatch, "/api/v1/catalog/products/42").Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/catalog/products/42").Code)
}

func TestDomainGroup_SkipsNilMiddleware(t *testing.T) {
	engine := gin.New()
	var optional gin.HandlerFunc

	g := NewDomainGroup("trade", "/sales").
		Use(optional).
		POST("", optional, func(c *gin.Context) { c.Status(http.StatusCreated) })
	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/sales").Code)
}

func TestRegisterShopRoutes(t *testing.T) {
	engine := gin.New()
	var limited, guarded int
	mw := RouteMiddleware{
		AuthRateLimit: func(c *gin.Context) { limited++; c.Next() },
		Idempotency:   func(c *gin.Context) { guarded++; c.AbortWithStatus(http.StatusConflict) },
	}

	NewRouter(engine).RegisterShopRoutes(Handlers{
		Auth:      &handler.AuthHandler{},
		Sale:      &handler.SaleHandler{},
		Product:   &handler.ProductHandler{},
		Category:  &handler.CategoryHandler{},
		Customer:  &handler.CustomerHandler{},
		Supplier:  &handler.SupplierHandler{},
		Inventory: &handler.InventoryHandler{},
		Report:    &handler.ReportHandler{},
		System:    &handler.SystemHandler{},
	}, mw).Setup()

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	want := []string{
		"DELETE /api/v1/catalog/categories/:id",
		"DELETE /api/v1/catalog/products/:id",
		"DELETE /api/v1/partner/customers/:id",
		"DELETE /api/v1/partner/suppliers/:id",
		"DELETE /api/v1/sales/:id",
		"GET /api/v1/auth/me",
		"GET /api/v1/catalog/categories",
		"GET /api/v1/catalog/categories/:id",
		"GET /api/v1/catalog/categories/tree",
		"GET /api/v1/catalog/products",
		"GET /api/v1/catalog/products/:id",
		"GET /api/v1/catalog/products/:id/history",
		"GET /api/v1/catalog/products/low-stock",
		"GET /api/v1/health",
		"GET /api/v1/inventory/alerts",
		"GET /api/v1/inventory/categories",
		"GET /api/v1/inventory/overview",
		"GET /api/v1/inventory/restock",
		"GET /api/v1/inventory/summary",
		"GET /api/v1/inventory/turnover",
		"GET /api/v1/partner/customers",
		"GET /api/v1/partner/customers/:id",
		"GET /api/v1/partner/suppliers",
		"GET /api/v1/partner/suppliers/:id",
		"GET /api/v1/reports/daily-sales",
		"GET /api/v1/reports/daily-sales/export",
		"GET /api/v1/reports/profit-loss",
		"GET /api/v1/reports/top-products",
		"GET /api/v1/sales",
		"GET /api/v1/sales/:id",
		"GET /api/v1/sales/today",
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/register",
		"POST /api/v1/catalog/categories",
		"POST /api/v1/catalog/products",
		"POST /api/v1/catalog/products/:id/stock",
		"POST /api/v1/partner/customers",
		"POST /api/v1/partner/suppliers",
		"POST /api/v1/sales",
		"PUT /api/v1/catalog/categories/:id",
		"PUT /api/v1/catalog/products/:id",
		"PUT /api/v1/partner/customers/:id",
		"PUT /api/v1/partner/suppliers/:id",
	}
	require.Equal(t, want, got)

	// Only sale creation passes through the idempotency guard
	assert.Equal(t, http.StatusConflict, serve(engine, http.MethodPost, "/api/v1/sales").Code)
	assert.Equal(t, 1, guarded)

	// System ping has no dependencies, so it can be served for real
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	assert.Zero(t, limited)
}
