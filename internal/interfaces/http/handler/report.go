package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/application/report"
)

// ReportHandler serves sales and profit reports
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ProfitLoss godoc
// @ID           getProfitLossReport
// @Summary      Profit and loss
// @Description  Revenue, cost and gross profit with a per-category breakdown
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "First day (YYYY-MM-DD), defaults to 30 days ago"
// @Param        end_date query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success      200 {object} APIResponse[report.ProfitLossReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/profit-loss [get]
func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	tenantID, filter, ok := h.period(c)
	if !ok {
		return
	}

	result, err := h.reportService.ProfitLoss(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// TopProducts godoc
// @ID           getTopProductsReport
// @Summary      Top selling products
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "First day (YYYY-MM-DD)"
// @Param        end_date query string false "Last day (YYYY-MM-DD)"
// @Param        limit query int false "Number of products" default(10) maximum(100)
// @Success      200 {object} APIResponse[report.TopProductsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, filter, ok := h.period(c)
	if !ok {
		return
	}

	result, err := h.reportService.TopProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DailySales godoc
// @ID           getDailySalesReport
// @Summary      Daily sales
// @Description  Per-day totals with the best selling products of each day, newest day first
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "First day (YYYY-MM-DD)"
// @Param        end_date query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.DailySalesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *gin.Context) {
	tenantID, filter, ok := h.period(c)
	if !ok {
		return
	}

	result, err := h.reportService.DailySales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportDailySales godoc
// @ID           exportDailySalesReport
// @Summary      Export daily sales as CSV
// @Tags         reports
// @Produce      text/csv
// @Param        start_date query string false "First day (YYYY-MM-DD)"
// @Param        end_date query string false "Last day (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/daily-sales/export [get]
func (h *ReportHandler) ExportDailySales(c *gin.Context) {
	tenantID, filter, ok := h.period(c)
	if !ok {
		return
	}

	// Rendered into a buffer so a failure can still be sent as JSON
	var buf bytes.Buffer
	if err := h.reportService.ExportDailySalesCSV(c.Request.Context(), tenantID, filter, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "daily-sales.csv"
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() {
		filename = fmt.Sprintf("daily-sales-%s-%s.csv",
			filter.StartDate.Format("20060102"), filter.EndDate.Format("20060102"))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ReportHandler) period(c *gin.Context) (tenantID uuid.UUID, filter report.PeriodFilter, ok bool) {
	tenantID, _, ok = h.caller(c)
	if !ok {
		return tenantID, filter, false
	}
	if !h.bindQuery(c, &filter) {
		return tenantID, filter, false
	}
	return tenantID, filter, true
}
