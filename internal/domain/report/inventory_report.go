package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType tells apart empty and low stock
type AlertType string

const (
	AlertTypeOutOfStock AlertType = "out_of_stock"
	AlertTypeLowStock   AlertType = "low_stock"
)

// InventorySummary provides aggregated inventory statistics
type InventorySummary struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockItems   int64           `json:"low_stock_items"`
	OutOfStockItems int64           `json:"out_of_stock_items"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"` // At selling price
	TotalInvestment decimal.Decimal `json:"total_investment"`  // At buying price
}

// StockAlert flags a product at or below its minimum level
type StockAlert struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	CategoryName  string    `json:"category_name"`
	CurrentStock  int       `json:"current_stock"`
	MinStockLevel int       `json:"min_stock_level"`
	AlertType     AlertType `json:"alert_type"`
}

// CategoryInventory is stock held per category
type CategoryInventory struct {
	CategoryID    uuid.UUID       `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	ProductCount  int64           `json:"product_count"`
	StockValue    decimal.Decimal `json:"stock_value"`
	LowStockCount int64           `json:"low_stock_count"`
}

// StockTurnover is cost of goods sold over a period against current stock at cost
type StockTurnover struct {
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	TurnoverRatio   decimal.Decimal `json:"turnover_ratio"`
}

// InventoryReportRepository defines the interface for inventory report queries.
// Every figure covers active products only.
type InventoryReportRepository interface {
	// GetInventorySummary counts products and values current stock
	GetInventorySummary(ctx context.Context, tenantID uuid.UUID) (*InventorySummary, error)

	// GetStockAlerts lists products at or below their minimum level,
	// lowest stock first
	GetStockAlerts(ctx context.Context, tenantID uuid.UUID) ([]StockAlert, error)

	// GetCategoryInventory values stock per category, highest value first
	GetCategoryInventory(ctx context.Context, tenantID uuid.UUID) ([]CategoryInventory, error)

	// GetCostOfGoodsSold sums sale cost in [start, end)
	GetCostOfGoodsSold(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
}
