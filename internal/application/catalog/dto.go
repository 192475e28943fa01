package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	Barcode       string          `json:"barcode" binding:"max=100"`
	CategoryID    uuid.UUID       `json:"category_id" binding:"required"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	InitialStock  int             `json:"initial_stock" binding:"min=0"`
	MinStockLevel *int            `json:"min_stock_level" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a request to update a product.
// Stock is not writable here; it only changes through sales and stock adjustments.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Barcode       *string          `json:"barcode" binding:"omitempty,max=100"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	ClearSupplier bool             `json:"clear_supplier"`
	BuyingPrice   *decimal.Decimal `json:"buying_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinStockLevel *int             `json:"min_stock_level" binding:"omitempty,min=0"`
	IsActive      *bool            `json:"is_active"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search       string     `form:"search"`
	CategoryID   *uuid.UUID `form:"category_id"`
	SupplierID   *uuid.UUID `form:"supplier_id"`
	IsActive     *bool      `form:"is_active"`
	LowStockOnly bool       `form:"low_stock"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	CategoryID    uuid.UUID       `json:"category_id"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	IsLowStock    bool            `json:"is_low_stock"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name               string           `json:"name" binding:"required,min=1,max=100"`
	Description        string           `json:"description" binding:"max=1000"`
	ParentID           *uuid.UUID       `json:"parent_id"`
	ProfitMarginTarget *decimal.Decimal `json:"profit_margin_target"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description        *string          `json:"description" binding:"omitempty,max=1000"`
	ParentID           *uuid.UUID       `json:"parent_id"`
	MoveToRoot         bool             `json:"move_to_root"`
	ProfitMarginTarget *decimal.Decimal `json:"profit_margin_target"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	ParentID           *uuid.UUID       `json:"parent_id,omitempty"`
	ProfitMarginTarget *decimal.Decimal `json:"profit_margin_target,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CategoryTreeNode is a category with its nested subcategories
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		SupplierID:    p.SupplierID,
		BuyingPrice:   p.BuyingPrice,
		SellingPrice:  p.SellingPrice,
		ProfitMargin:  p.ProfitMargin(),
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		IsLowStock:    p.IsLowStock(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		ParentID:           c.ParentID,
		ProfitMarginTarget: c.ProfitMarginTarget,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
