package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryReportRepository implements InventoryReportRepository using GORM
type GormInventoryReportRepository struct {
	db *gorm.DB
}

// NewGormInventoryReportRepository creates a new GormInventoryReportRepository
func NewGormInventoryReportRepository(db *gorm.DB) *GormInventoryReportRepository {
	return &GormInventoryReportRepository{db: db}
}

// GetInventorySummary returns aggregated inventory summary
func (r *GormInventoryReportRepository) GetInventorySummary(ctx context.Context, tenantID uuid.UUID) (*report.InventorySummary, error) {
	type summaryResult struct {
		TotalProducts   int64
		LowStockItems   int64
		OutOfStockItems int64
		TotalStockValue decimal.Decimal
		TotalInvestment decimal.Decimal
	}

	var result summaryResult

	err := r.db.WithContext(ctx).Table("products p").
		Select(`
			COUNT(*) as total_products,
			COALESCE(SUM(CASE WHEN p.current_stock > 0 AND p.current_stock <= p.min_stock_level THEN 1 ELSE 0 END), 0) as low_stock_items,
			COALESCE(SUM(CASE WHEN p.current_stock = 0 THEN 1 ELSE 0 END), 0) as out_of_stock_items,
			COALESCE(SUM(p.selling_price * p.current_stock), 0) as total_stock_value,
			COALESCE(SUM(p.buying_price * p.current_stock), 0) as total_investment
		`).
		Scopes(tenant.ScopeTable("p", tenantID)).
		Where("p.is_active = ?", true).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &report.InventorySummary{
		TotalProducts:   result.TotalProducts,
		LowStockItems:   result.LowStockItems,
		OutOfStockItems: result.OutOfStockItems,
		TotalStockValue: result.TotalStockValue.Round(2),
		TotalInvestment: result.TotalInvestment.Round(2),
	}, nil
}

// GetStockAlerts lists products at or below their minimum level
func (r *GormInventoryReportRepository) GetStockAlerts(ctx context.Context, tenantID uuid.UUID) ([]report.StockAlert, error) {
	type alertResult struct {
		ProductID     uuid.UUID
		ProductName   string
		CategoryName  string
		CurrentStock  int
		MinStockLevel int
	}

	var results []alertResult

	err := r.db.WithContext(ctx).Table("products p").
		Select(`
			p.id as product_id,
			p.name as product_name,
			COALESCE(c.name, '') as category_name,
			p.current_stock,
			p.min_stock_level
		`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Scopes(tenant.ScopeTable("p", tenantID)).
		Where("p.is_active = ? AND p.current_stock <= p.min_stock_level", true).
		Order("p.current_stock ASC, p.name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]report.StockAlert, len(results))
	for i, res := range results {
		alertType := report.AlertTypeLowStock
		if res.CurrentStock == 0 {
			alertType = report.AlertTypeOutOfStock
		}
		alerts[i] = report.StockAlert{
			ProductID:     res.ProductID,
			ProductName:   res.ProductName,
			CategoryName:  res.CategoryName,
			CurrentStock:  res.CurrentStock,
			MinStockLevel: res.MinStockLevel,
			AlertType:     alertType,
		}
	}
	return alerts, nil
}

// GetCategoryInventory values stock per category, highest value first
func (r *GormInventoryReportRepository) GetCategoryInventory(ctx context.Context, tenantID uuid.UUID) ([]report.CategoryInventory, error) {
	type categoryResult struct {
		CategoryID    uuid.UUID
		CategoryName  string
		ProductCount  int64
		StockValue    decimal.Decimal
		LowStockCount int64
	}

	var results []categoryResult

	err := r.db.WithContext(ctx).Table("categories c").
		Select(`
			c.id as category_id,
			c.name as category_name,
			COUNT(p.id) as product_count,
			COALESCE(SUM(p.selling_price * p.current_stock), 0) as stock_value,
			COALESCE(SUM(CASE WHEN p.current_stock <= p.min_stock_level THEN 1 ELSE 0 END), 0) as low_stock_count
		`).
		Joins("LEFT JOIN products p ON p.category_id = c.id AND p.tenant_id = c.tenant_id AND p.is_active = ?", true).
		Scopes(tenant.ScopeTable("c", tenantID)).
		Group("c.id, c.name").
		Order("stock_value DESC, c.name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.CategoryInventory, len(results))
	for i, res := range results {
		out[i] = report.CategoryInventory{
			CategoryID:    res.CategoryID,
			CategoryName:  res.CategoryName,
			ProductCount:  res.ProductCount,
			StockValue:    res.StockValue.Round(2),
			LowStockCount: res.LowStockCount,
		}
	}
	return out, nil
}

// GetCostOfGoodsSold sums sale cost in [start, end)
func (r *GormInventoryReportRepository) GetCostOfGoodsSold(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("sales s").
		Select("COALESCE(SUM(s.total_cost), 0) as total").
		Scopes(tenant.ScopeTable("s", tenantID)).
		Where("s.sale_time >= ? AND s.sale_time < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total.Round(2), nil
}

// Ensure GormInventoryReportRepository implements InventoryReportRepository
var _ report.InventoryReportRepository = (*GormInventoryReportRepository)(nil)
