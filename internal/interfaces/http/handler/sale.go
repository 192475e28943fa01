package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/application/trade"
)

// SaleHandler handles point-of-sale HTTP requests
type SaleHandler struct {
	BaseHandler
	saleService *trade.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *trade.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// Create godoc
// @ID           createSale
// @Summary      Record a sale
// @Description  Check out a basket. Stock is deducted, the ledger is written and the customer totals are updated in one transaction.
// @Description  Send an Idempotency-Key header to make retries safe.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key, unique per checkout"
// @Param        request body trade.CreateSaleRequest true "Sale request"
// @Success      201 {object} APIResponse[trade.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}

	var req trade.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Description  Paged sales, newest first. Dates are inclusive UTC days.
// @Tags         sales
// @Produce      json
// @Param        start_date query string false "First day (YYYY-MM-DD)"
// @Param        end_date query string false "Last day (YYYY-MM-DD)"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        payment_method query string false "Payment method" Enums(cash, card, mobile, bank_transfer, credit)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(sale_time)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} PagedResponse[trade.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	var filter trade.SaleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	sales, total, err := h.saleService.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, sales, total, page, pageSize)
}

// Today godoc
// @ID           listTodaySales
// @Summary      Today's sales
// @Description  Sales made since midnight UTC
// @Tags         sales
// @Produce      json
// @Success      200 {object} PagedResponse[trade.SaleResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/today [get]
func (h *SaleHandler) Today(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}

	sales, total, err := h.saleService.TodaySales(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, 1, len(sales))
}

// Get godoc
// @ID           getSale
// @Summary      Get sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[trade.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Delete godoc
// @ID           deleteSale
// @Summary      Delete a sale
// @Description  Reverse a sale: stock is restored, the ledger records a cancellation and customer totals are rolled back.
// @Tags         sales
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	saleID, ok := h.pathID(c)
	if !ok {
		return
	}

	deleted, err := h.saleService.DeleteSale(c.Request.Context(), tenantID, userID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !deleted {
		h.NotFound(c, "Sale not found")
		return
	}

	h.NoContent(c)
}
