package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// GormSalesReportRepository implements SalesReportRepository using GORM
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// salesInPeriod selects sale headers of the tenant in [StartDate, EndDate)
func salesInPeriod(filter report.SalesReportFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(tenant.ScopeTable("s", filter.TenantID)).
			Where("s.sale_time >= ? AND s.sale_time < ?", filter.StartDate, filter.EndDate)
	}
}

// GetSalesTotals sums sale headers in the period
func (r *GormSalesReportRepository) GetSalesTotals(ctx context.Context, filter report.SalesReportFilter) (*report.SalesTotals, error) {
	type totalsResult struct {
		TotalRevenue      decimal.Decimal
		TotalCost         decimal.Decimal
		TotalProfit       decimal.Decimal
		TotalTransactions int64
	}

	var result totalsResult

	err := r.db.WithContext(ctx).Table("sales s").
		Select(`
			COALESCE(SUM(s.total_amount), 0) as total_revenue,
			COALESCE(SUM(s.total_cost), 0) as total_cost,
			COALESCE(SUM(s.total_profit), 0) as total_profit,
			COUNT(*) as total_transactions
		`).
		Scopes(salesInPeriod(filter)).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &report.SalesTotals{
		TotalRevenue:      result.TotalRevenue.Round(2),
		TotalCost:         result.TotalCost.Round(2),
		TotalProfit:       result.TotalProfit.Round(2),
		TotalTransactions: result.TotalTransactions,
	}, nil
}

// GetCategorySales sums sale items per category, including categories
// without sales in the period
func (r *GormSalesReportRepository) GetCategorySales(ctx context.Context, filter report.SalesReportFilter) ([]report.CategorySales, error) {
	type categoryResult struct {
		CategoryID   uuid.UUID
		CategoryName string
		TotalSales   decimal.Decimal
		TotalProfit  decimal.Decimal
	}

	lines := r.db.Table("sale_items si").
		Select("p.category_id, si.total_amount, si.total_profit").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Joins("JOIN products p ON p.id = si.product_id").
		Scopes(salesInPeriod(filter))

	var results []categoryResult
	err := r.db.WithContext(ctx).Table("categories c").
		Select(`
			c.id as category_id,
			c.name as category_name,
			COALESCE(SUM(x.total_amount), 0) as total_sales,
			COALESCE(SUM(x.total_profit), 0) as total_profit
		`).
		Joins("LEFT JOIN (?) x ON x.category_id = c.id", lines).
		Scopes(tenant.ScopeTable("c", filter.TenantID)).
		Group("c.id, c.name").
		Order("total_sales DESC, c.name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.CategorySales, len(results))
	for i, res := range results {
		margin := decimal.Zero
		if res.TotalSales.IsPositive() {
			margin = res.TotalProfit.Div(res.TotalSales).Mul(hundred).Round(2)
		}
		out[i] = report.CategorySales{
			CategoryID:   res.CategoryID,
			CategoryName: res.CategoryName,
			TotalSales:   res.TotalSales.Round(2),
			TotalProfit:  res.TotalProfit.Round(2),
			ProfitMargin: margin,
		}
	}
	return out, nil
}

// GetTopProducts ranks products by sales amount
func (r *GormSalesReportRepository) GetTopProducts(ctx context.Context, filter report.SalesReportFilter) ([]report.ProductSales, error) {
	type productResult struct {
		ProductID    uuid.UUID
		ProductName  string
		QuantitySold int64
		TotalSales   decimal.Decimal
		TotalProfit  decimal.Decimal
	}

	limit := filter.TopN
	if limit <= 0 {
		limit = 10
	}

	var results []productResult
	err := r.db.WithContext(ctx).Table("sale_items si").
		Select(`
			si.product_id,
			MAX(si.product_name) as product_name,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.total_amount), 0) as total_sales,
			COALESCE(SUM(si.total_profit), 0) as total_profit
		`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Scopes(salesInPeriod(filter)).
		Group("si.product_id").
		Order("total_sales DESC, quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.ProductSales, len(results))
	for i, res := range results {
		out[i] = report.ProductSales{
			ProductID:    res.ProductID,
			ProductName:  res.ProductName,
			QuantitySold: res.QuantitySold,
			TotalSales:   res.TotalSales.Round(2),
			TotalProfit:  res.TotalProfit.Round(2),
		}
	}
	return out, nil
}

// GetSaleLines returns every sale item in the period with its sale time
func (r *GormSalesReportRepository) GetSaleLines(ctx context.Context, filter report.SalesReportFilter) ([]report.SaleLine, error) {
	var lines []report.SaleLine
	err := r.db.WithContext(ctx).Table("sale_items si").
		Select(`
			s.id as sale_id,
			s.sale_time,
			si.product_id,
			si.product_name,
			si.quantity,
			si.total_amount,
			si.total_profit
		`).
		Joins("JOIN sales s ON s.id = si.sale_id").
		Scopes(salesInPeriod(filter)).
		Order("s.sale_time ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// GetSaleHeaders returns sale time, amount and profit of every sale in the period
func (r *GormSalesReportRepository) GetSaleHeaders(ctx context.Context, filter report.SalesReportFilter) ([]report.SaleHeader, error) {
	var headers []report.SaleHeader
	err := r.db.WithContext(ctx).Table("sales s").
		Select("s.id as sale_id, s.sale_time, s.total_amount, s.total_profit").
		Scopes(salesInPeriod(filter)).
		Order("s.sale_time ASC").
		Scan(&headers).Error
	if err != nil {
		return nil, err
	}
	return headers, nil
}

// Ensure GormSalesReportRepository implements SalesReportRepository
var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)
