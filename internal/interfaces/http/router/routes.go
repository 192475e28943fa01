package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers served under the versioned API
type Handlers struct {
	Auth      *handler.AuthHandler
	Sale      *handler.SaleHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Inventory *handler.InventoryHandler
	Report    *handler.ReportHandler
	System    *handler.SystemHandler
}

// RouteMiddleware is middleware bound to individual routes rather than the
// whole engine. Nil entries are skipped.
type RouteMiddleware struct {
	// AuthRateLimit guards the public credential endpoints
	AuthRateLimit gin.HandlerFunc
	// Idempotency guards sale creation
	Idempotency gin.HandlerFunc
}

// RegisterShopRoutes registers every API domain group on r
func (r *Router) RegisterShopRoutes(h Handlers, mw RouteMiddleware) *Router {
	return r.
		Register(authRoutes(h.Auth, mw)).
		Register(systemRoutes(h.System)).
		Register(saleRoutes(h.Sale, mw)).
		Register(catalogRoutes(h.Product, h.Category)).
		Register(partnerRoutes(h.Customer, h.Supplier)).
		Register(inventoryRoutes(h.Inventory)).
		Register(reportRoutes(h.Report))
}

func authRoutes(h *handler.AuthHandler, mw RouteMiddleware) *DomainGroup {
	return NewDomainGroup("auth", "/auth").
		POST("/register", mw.AuthRateLimit, h.Register).
		POST("/login", mw.AuthRateLimit, h.Login).
		POST("/refresh", mw.AuthRateLimit, h.RefreshToken).
		POST("/logout", h.Logout).
		GET("/me", h.GetCurrentUser)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "")
	g.GET("/health", h.Health)
	g.Group("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
	return g
}

func saleRoutes(h *handler.SaleHandler, mw RouteMiddleware) *DomainGroup {
	return NewDomainGroup("trade", "/sales").
		POST("", mw.Idempotency, h.Create).
		GET("", h.List).
		GET("/today", h.Today).
		GET("/:id", h.Get).
		DELETE("/:id", h.Delete)
}

func catalogRoutes(products *handler.ProductHandler, categories *handler.CategoryHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")

	g.Group("products", "/products").
		POST("", products.Create).
		GET("", products.List).
		GET("/low-stock", products.LowStock).
		GET("/:id", products.GetByID).
		PUT("/:id", products.Update).
		DELETE("/:id", products.Delete).
		GET("/:id/history", products.History).
		POST("/:id/stock", products.AdjustStock)

	g.Group("categories", "/categories").
		POST("", categories.Create).
		GET("", categories.List).
		GET("/tree", categories.Tree).
		GET("/:id", categories.GetByID).
		PUT("/:id", categories.Update).
		DELETE("/:id", categories.Delete)

	return g
}

func partnerRoutes(customers *handler.CustomerHandler, suppliers *handler.SupplierHandler) *DomainGroup {
	g := NewDomainGroup("partner", "/partner")

	g.Group("customers", "/customers").
		POST("", customers.Create).
		GET("", customers.List).
		GET("/:id", customers.GetByID).
		PUT("/:id", customers.Update).
		DELETE("/:id", customers.Delete)

	g.Group("suppliers", "/suppliers").
		POST("", suppliers.Create).
		GET("", suppliers.List).
		GET("/:id", suppliers.GetByID).
		PUT("/:id", suppliers.Update).
		DELETE("/:id", suppliers.Delete)

	return g
}

func inventoryRoutes(h *handler.InventoryHandler) *DomainGroup {
	return NewDomainGroup("inventory", "/inventory").
		GET("/summary", h.Summary).
		GET("/alerts", h.Alerts).
		GET("/categories", h.Categories).
		GET("/overview", h.Overview).
		GET("/restock", h.Restock).
		GET("/turnover", h.Turnover)
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	return NewDomainGroup("report", "/reports").
		GET("/profit-loss", h.ProfitLoss).
		GET("/top-products", h.TopProducts).
		GET("/daily-sales", h.DailySales).
		GET("/daily-sales/export", h.ExportDailySales)
}
