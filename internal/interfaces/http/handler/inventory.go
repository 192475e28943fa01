package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/application/inventory"
	"github.com/shopmgmt/backend/internal/interfaces/http/dto"
)

// InventoryHandler serves the inventory dashboard
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// Summary godoc
// @ID           getInventorySummary
// @Summary      Inventory summary
// @Description  Product counts and stock value at buying and selling prices
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[report.InventorySummary]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	summary, err := h.inventoryService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Alerts godoc
// @ID           listStockAlerts
// @Summary      Stock alerts
// @Description  Out of stock and low stock products, most urgent first
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]report.StockAlert]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	alerts, err := h.inventoryService.StockAlerts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// Categories godoc
// @ID           listCategoryInventory
// @Summary      Inventory by category
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]report.CategoryInventory]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/categories [get]
func (h *InventoryHandler) Categories(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	categories, err := h.inventoryService.CategoryInventory(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Overview godoc
// @ID           getInventoryOverview
// @Summary      Inventory overview
// @Description  Summary, alerts and category breakdown in one call
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[inventory.OverviewResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/overview [get]
func (h *InventoryHandler) Overview(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	overview, err := h.inventoryService.Overview(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}

// Restock godoc
// @ID           listRestockItems
// @Summary      Restock list
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventory.RestockItem]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/restock [get]
func (h *InventoryHandler) Restock(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	items, err := h.inventoryService.RestockList(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Turnover godoc
// @ID           getStockTurnover
// @Summary      Stock turnover
// @Description  Cost of goods sold over the period divided by current stock value
// @Tags         inventory
// @Produce      json
// @Param        start_date query string false "First day (YYYY-MM-DD), defaults to 30 days ago"
// @Param        end_date query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[inventory.TurnoverResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/turnover [get]
func (h *InventoryHandler) Turnover(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	var query dto.DateRangeQuery
	if !h.bindQuery(c, &query) {
		return
	}

	start, end, ok := query.Bounds()
	if !ok {
		h.ValidationError(c, []dto.ValidationDetail{{Field: "end_date", Message: "must not be before start_date"}})
		return
	}

	turnover, err := h.inventoryService.Turnover(c.Request.Context(), tenantID, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, turnover)
}
