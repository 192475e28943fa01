package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest represents a point-of-sale checkout
type CreateSaleRequest struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	CustomerName  string                `json:"customer_name" binding:"max=255"`
	CustomerPhone string                `json:"customer_phone" binding:"max=20"`
	PaymentMethod string                `json:"payment_method" binding:"omitempty,oneof=cash card mobile bank_transfer credit"`
	Notes         string                `json:"notes" binding:"max=1000"`
	Items         []CreateSaleItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleItemInput is one line of a checkout
type CreateSaleItemInput struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	Quantity         int             `json:"quantity" binding:"required,gt=0"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price" binding:"required"`
}

// SaleListFilter represents filter options for listing sales
type SaleListFilter struct {
	StartDate     *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"end_date" time_format:"2006-01-02"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=cash card mobile bank_transfer credit"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	DateTime      time.Time          `json:"date_time"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	TotalCost     decimal.Decimal    `json:"total_cost"`
	TotalProfit   decimal.Decimal    `json:"total_profit"`
	ItemCount     int                `json:"item_count"`
	TotalQuantity int                `json:"total_quantity"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	UnitBuyingPrice  decimal.Decimal `json:"unit_buying_price"`
	UnitSellingPrice decimal.Decimal `json:"unit_selling_price"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
}

// ToSaleResponse converts a domain Sale to a response DTO
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i := range sale.Items {
		items[i] = ToSaleItemResponse(&sale.Items[i])
	}

	return SaleResponse{
		ID:            sale.ID,
		DateTime:      sale.SaleTime,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		PaymentMethod: string(sale.PaymentMethod),
		Notes:         sale.Notes,
		TotalAmount:   sale.TotalAmount,
		TotalCost:     sale.TotalCost,
		TotalProfit:   sale.TotalProfit,
		ItemCount:     sale.ItemCount(),
		TotalQuantity: sale.TotalQuantity(),
		CreatedAt:     sale.CreatedAt,
		Items:         items,
	}
}

// ToSaleItemResponse converts a domain SaleItem to a response DTO
func ToSaleItemResponse(item *trade.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Quantity,
		UnitBuyingPrice:  item.UnitBuyingPrice,
		UnitSellingPrice: item.UnitSellingPrice,
		TotalAmount:      item.TotalAmount,
		TotalCost:        item.TotalCost,
		TotalProfit:      item.TotalProfit,
	}
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(sales []trade.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}
