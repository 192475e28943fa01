package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals aggregates sale headers over a period
type SalesTotals struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalTransactions int64           `json:"total_transactions"`
}

// CategorySales is revenue and profit for one category over a period
type CategorySales struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // Percentage
}

// ProfitLossReport is the profit and loss statement for a period
type ProfitLossReport struct {
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	GrossProfitMargin decimal.Decimal `json:"gross_profit_margin"` // Percentage
	CategoryBreakdown []CategorySales `json:"category_breakdown"`
}

// ProductSales is the sales performance of one product
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id" csv:"product_id"`
	ProductName  string          `json:"product_name" csv:"product_name"`
	QuantitySold int64           `json:"quantity_sold" csv:"quantity_sold"`
	TotalSales   decimal.Decimal `json:"total_sales" csv:"total_sales"`
	TotalProfit  decimal.Decimal `json:"total_profit" csv:"total_profit"`
}

// DailySales summarizes one UTC calendar day
type DailySales struct {
	Date              time.Time       `json:"date"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalTransactions int64           `json:"total_transactions"`
	TopProducts       []ProductSales  `json:"top_products"`
}

// SaleLine is a flattened sale item joined with its sale time, used for
// day-level grouping
type SaleLine struct {
	SaleID      uuid.UUID
	SaleTime    time.Time
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	TotalAmount decimal.Decimal
	TotalProfit decimal.Decimal
}

// SalesReportFilter defines filtering options for sales reports
type SalesReportFilter struct {
	TenantID  uuid.UUID
	StartDate time.Time
	EndDate   time.Time // exclusive
	TopN      int
}

// SalesReportRepository defines the interface for sales report queries
type SalesReportRepository interface {
	// GetSalesTotals sums sale headers in the period
	GetSalesTotals(ctx context.Context, filter SalesReportFilter) (*SalesTotals, error)

	// GetCategorySales sums sale items per category, including categories
	// with no sales in the period
	GetCategorySales(ctx context.Context, filter SalesReportFilter) ([]CategorySales, error)

	// GetTopProducts ranks products by sales amount
	GetTopProducts(ctx context.Context, filter SalesReportFilter) ([]ProductSales, error)

	// GetSaleLines returns every sale item in the period with its sale time
	GetSaleLines(ctx context.Context, filter SalesReportFilter) ([]SaleLine, error)

	// GetSaleHeaders returns sale time, amount and profit of every sale in the period
	GetSaleHeaders(ctx context.Context, filter SalesReportFilter) ([]SaleHeader, error)
}

// SaleHeader is the part of a sale that day-level grouping needs
type SaleHeader struct {
	SaleID      uuid.UUID
	SaleTime    time.Time
	TotalAmount decimal.Decimal
	TotalProfit decimal.Decimal
}
