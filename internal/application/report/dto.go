package report

import (
	"time"

	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultTopProducts is the ranking size when no limit is given
const DefaultTopProducts = 10

// DailyTopProducts is how many products each day of the daily report lists
const DailyTopProducts = 5

// PeriodFilter is the query for every report endpoint.
// Zero dates default to the last 30 days.
type PeriodFilter struct {
	StartDate time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   time.Time `form:"end_date" time_format:"2006-01-02"`
	Limit     int       `form:"limit" binding:"omitempty,min=1,max=100"`
}

// dateRange resolves the filter to a half-open range. EndDate is the last
// day included, so the range runs to the following midnight.
func (f PeriodFilter) dateRange() (shared.DateRange, error) {
	end := f.EndDate
	if !f.StartDate.IsZero() && !end.IsZero() && end.Before(f.StartDate) {
		return shared.DateRange{}, shared.NewValidationError("INVALID_DATE_RANGE", "start date must not be after end date")
	}
	if !end.IsZero() {
		end = end.UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	}
	return shared.NewDateRange(f.StartDate, end)
}

// TopProductsResponse ranks products over a period
type TopProductsResponse struct {
	StartDate time.Time             `json:"start_date"`
	EndDate   time.Time             `json:"end_date"`
	Products  []report.ProductSales `json:"products"`
}

// DailySalesResponse lists per-day totals, newest day first
type DailySalesResponse struct {
	StartDate time.Time           `json:"start_date"`
	EndDate   time.Time           `json:"end_date"`
	Days      []report.DailySales `json:"days"`
}

// DailySalesCSVRow is one exported line of the daily sales report
type DailySalesCSVRow struct {
	Date              string `csv:"date"`
	TotalSales        string `csv:"total_sales"`
	TotalProfit       string `csv:"total_profit"`
	TotalTransactions int64  `csv:"transactions"`
	TopProduct        string `csv:"top_product"`
	TopProductSales   string `csv:"top_product_sales"`
}

func toCSVRows(days []report.DailySales) []DailySalesCSVRow {
	rows := make([]DailySalesCSVRow, len(days))
	for i, d := range days {
		row := DailySalesCSVRow{
			Date:              d.Date.Format("2006-01-02"),
			TotalSales:        d.TotalSales.StringFixed(2),
			TotalProfit:       d.TotalProfit.StringFixed(2),
			TotalTransactions: d.TotalTransactions,
			TopProductSales:   decimal.Zero.StringFixed(2),
		}
		if len(d.TopProducts) > 0 {
			row.TopProduct = d.TopProducts[0].ProductName
			row.TopProductSales = d.TopProducts[0].TotalSales.StringFixed(2)
		}
		rows[i] = row
	}
	return rows
}
