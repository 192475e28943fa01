package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel is used when a product is created without one
const DefaultMinStockLevel = 10

var hundred = decimal.NewFromInt(100)

// Product represents a sellable item owned by a shop.
// CurrentStock only changes through DeductStock, RestoreStock and
// AdjustStock; Version is advanced by the repository on every write.
type Product struct {
	shared.TenantAggregateRoot
	Name          string
	Barcode       string
	CategoryID    uuid.UUID
	SupplierID    *uuid.UUID
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	IsActive      bool
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, name string, categoryID uuid.UUID, buyingPrice, sellingPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CATEGORY", "Category is required")
	}
	if err := validatePrices(buyingPrice, sellingPrice); err != nil {
		return nil, err
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		CategoryID:          categoryID,
		BuyingPrice:         buyingPrice,
		SellingPrice:        sellingPrice,
		MinStockLevel:       DefaultMinStockLevel,
		IsActive:            true,
	}, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, barcode string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateBarcode(barcode); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Barcode = strings.TrimSpace(barcode)
	p.touch()
	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if err := validateBarcode(barcode); err != nil {
		return err
	}
	p.Barcode = strings.TrimSpace(barcode)
	p.touch()
	return nil
}

// SetPrices sets buying and selling prices. Existing sale items keep the
// prices they captured at sale time.
func (p *Product) SetPrices(buyingPrice, sellingPrice decimal.Decimal) error {
	if err := validatePrices(buyingPrice, sellingPrice); err != nil {
		return err
	}
	p.BuyingPrice = buyingPrice
	p.SellingPrice = sellingPrice
	p.touch()
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewValidationError("INVALID_CATEGORY", "Category is required")
	}
	p.CategoryID = categoryID
	p.touch()
	return nil
}

// SetSupplier sets or clears the product supplier
func (p *Product) SetSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.touch()
}

// SetMinStockLevel sets the low stock threshold
func (p *Product) SetMinStockLevel(level int) error {
	if level < 0 {
		return shared.NewValidationError("INVALID_MIN_STOCK", "Minimum stock level cannot be negative")
	}
	p.MinStockLevel = level
	p.touch()
	return nil
}

// SetInitialStock sets the opening stock of a product that has not been saved yet
func (p *Product) SetInitialStock(quantity int) error {
	if quantity < 0 {
		return shared.NewValidationError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.CurrentStock = quantity
	return nil
}

// Activate marks the product as sellable
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.touch()
}

// Deactivate hides the product from sales
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.touch()
}

// CanSupply reports whether quantity units are available
func (p *Product) CanSupply(quantity int) bool {
	return quantity > 0 && p.CurrentStock >= quantity
}

// DeductStock removes quantity units for a sale and returns the stock
// before and after the change.
func (p *Product) DeductStock(quantity int) (before, after int, err error) {
	if quantity <= 0 {
		return 0, 0, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.CurrentStock < quantity {
		return 0, 0, shared.NewConflictError("INSUFFICIENT_STOCK", "Insufficient stock for product: "+p.Name)
	}
	before = p.CurrentStock
	p.CurrentStock -= quantity
	p.touch()
	return before, p.CurrentStock, nil
}

// RestoreStock adds quantity units back, e.g. when a sale is reversed.
func (p *Product) RestoreStock(quantity int) (before, after int, err error) {
	if quantity <= 0 {
		return 0, 0, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	before = p.CurrentStock
	p.CurrentStock += quantity
	p.touch()
	return before, p.CurrentStock, nil
}

// AdjustStock applies a signed manual change. The result may not be negative.
func (p *Product) AdjustStock(delta int) (before, after int, err error) {
	if delta == 0 {
		return 0, 0, shared.NewValidationError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if p.CurrentStock+delta < 0 {
		return 0, 0, shared.NewConflictError("INSUFFICIENT_STOCK", "Adjustment would make stock negative for product: "+p.Name)
	}
	before = p.CurrentStock
	p.CurrentStock += delta
	p.touch()
	return before, p.CurrentStock, nil
}

// ProfitPerUnit returns selling price minus buying price
func (p *Product) ProfitPerUnit() decimal.Decimal {
	return p.SellingPrice.Sub(p.BuyingPrice)
}

// ProfitMargin returns the profit per unit as a percentage of the selling price
func (p *Product) ProfitMargin() decimal.Decimal {
	if !p.SellingPrice.IsPositive() {
		return decimal.Zero
	}
	return p.ProfitPerUnit().Div(p.SellingPrice).Mul(hundred).Round(2)
}

// IsLowStock reports whether stock is at or below the minimum level
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

// IsOutOfStock reports whether no units are left
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock == 0
}

// StockValue is current stock valued at the selling price
func (p *Product) StockValue() decimal.Decimal {
	return p.SellingPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// StockCost is current stock valued at the buying price
func (p *Product) StockCost() decimal.Decimal {
	return p.BuyingPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateBarcode(barcode string) error {
	if len(barcode) > 100 {
		return shared.NewValidationError("INVALID_BARCODE", "Barcode cannot exceed 100 characters")
	}
	return nil
}

func validatePrices(buyingPrice, sellingPrice decimal.Decimal) error {
	if buyingPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Buying price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if !shared.IsWholeCents(buyingPrice) || !shared.IsWholeCents(sellingPrice) {
		return shared.NewValidationError("INVALID_PRICE", "Prices cannot have more than 2 decimal places")
	}
	return nil
}
