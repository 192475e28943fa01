package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest records a manual stock change. Quantity is signed:
// positive for stock received, negative for stock removed.
type AdjustStockRequest struct {
	Quantity        int              `json:"quantity" binding:"required"`
	TransactionType string           `json:"transaction_type" binding:"required,oneof=Purchase Adjustment Return"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Notes           string           `json:"notes" binding:"max=500"`
}

// StockAdjustmentResponse is the product stock after an adjustment and the
// ledger entry that recorded it
type StockAdjustmentResponse struct {
	ProductID    uuid.UUID              `json:"product_id"`
	CurrentStock int                    `json:"current_stock"`
	Entry        ProductHistoryResponse `json:"entry"`
}

// ProductHistoryResponse represents one ledger entry in API responses
type ProductHistoryResponse struct {
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"product_id"`
	TransactionType string           `json:"transaction_type"`
	QuantityChanged int              `json:"quantity_changed"`
	StockBefore     int              `json:"stock_before"`
	StockAfter      int              `json:"stock_after"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	TotalValue      *decimal.Decimal `json:"total_value,omitempty"`
	SourceID        *uuid.UUID       `json:"source_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// HistoryFilter pages through a product's ledger
type HistoryFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RestockItem is an active product at or below its minimum stock level
type RestockItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Barcode       string          `json:"barcode,omitempty"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
}

// TurnoverResponse is stock turnover over a date range
type TurnoverResponse struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	report.StockTurnover
}

// OverviewResponse bundles the inventory dashboard figures
type OverviewResponse struct {
	Summary    report.InventorySummary    `json:"summary"`
	Alerts     []report.StockAlert        `json:"alerts"`
	Categories []report.CategoryInventory `json:"categories"`
}

// ToProductHistoryResponse converts a ledger entry to its response form
func ToProductHistoryResponse(h *inventory.ProductHistory) ProductHistoryResponse {
	return ProductHistoryResponse{
		ID:              h.ID,
		ProductID:       h.ProductID,
		TransactionType: h.TransactionType.String(),
		QuantityChanged: h.QuantityChanged,
		StockBefore:     h.StockBefore,
		StockAfter:      h.StockAfter,
		UnitPrice:       h.UnitPrice,
		TotalValue:      h.TotalValue,
		SourceID:        h.SourceID,
		Notes:           h.Notes,
		CreatedBy:       h.CreatedBy,
		CreatedAt:       h.CreatedAt,
	}
}

// ToProductHistoryResponses converts a slice of ledger entries
func ToProductHistoryResponses(entries []inventory.ProductHistory) []ProductHistoryResponse {
	responses := make([]ProductHistoryResponse, len(entries))
	for i := range entries {
		responses[i] = ToProductHistoryResponse(&entries[i])
	}
	return responses
}

// ToRestockItems converts low stock products to restock items
func ToRestockItems(products []catalog.Product) []RestockItem {
	items := make([]RestockItem, len(products))
	for i, p := range products {
		items[i] = RestockItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Barcode:       p.Barcode,
			SupplierID:    p.SupplierID,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			BuyingPrice:   p.BuyingPrice,
		}
	}
	return items
}
