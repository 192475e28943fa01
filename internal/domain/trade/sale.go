package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobile       PaymentMethod = "mobile"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCredit       PaymentMethod = "credit"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodBankTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// ParsePaymentMethod normalizes a method name. Empty means cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentMethodCash, nil
	}
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", shared.NewValidationError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+s)
	}
	return m, nil
}

// SaleItem is one line of a sale. Prices are captured when the sale is made
// and never follow later product price changes.
type SaleItem struct {
	ID               uuid.UUID
	SaleID           uuid.UUID
	ProductID        uuid.UUID
	ProductName      string
	Quantity         int
	UnitBuyingPrice  decimal.Decimal
	UnitSellingPrice decimal.Decimal
	TotalAmount      decimal.Decimal
	TotalCost        decimal.Decimal
	TotalProfit      decimal.Decimal
	CreatedAt        time.Time
}

// NewSaleItem creates a sale line and computes its amount, cost and profit
func NewSaleItem(saleID, productID uuid.UUID, productName string, quantity int, unitBuyingPrice, unitSellingPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unitSellingPrice.IsPositive() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit selling price must be positive")
	}
	if unitBuyingPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit buying price cannot be negative")
	}
	if !shared.IsWholeCents(unitSellingPrice) || !shared.IsWholeCents(unitBuyingPrice) {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit prices cannot have more than 2 decimal places")
	}

	qty := decimal.NewFromInt(int64(quantity))
	amount := qty.Mul(unitSellingPrice)
	cost := qty.Mul(unitBuyingPrice)

	return &SaleItem{
		ID:               uuid.New(),
		SaleID:           saleID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		UnitBuyingPrice:  unitBuyingPrice,
		UnitSellingPrice: unitSellingPrice,
		TotalAmount:      amount,
		TotalCost:        cost,
		TotalProfit:      amount.Sub(cost),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Sale is a completed point-of-sale transaction.
// It is created together with its items and is never edited afterwards;
// the only way to undo it is a full reversal.
type Sale struct {
	shared.TenantAggregateRoot
	SaleTime      time.Time
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	PaymentMethod PaymentMethod
	Notes         string
	TotalAmount   decimal.Decimal
	TotalCost     decimal.Decimal
	TotalProfit   decimal.Decimal
	Items         []SaleItem
}

// NewSale creates an empty sale header
func NewSale(tenantID, createdBy uuid.UUID, method PaymentMethod) (*Sale, error) {
	if !method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
	sale := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		PaymentMethod:       method,
		TotalAmount:         decimal.Zero,
		TotalCost:           decimal.Zero,
		TotalProfit:         decimal.Zero,
		Items:               make([]SaleItem, 0),
	}
	sale.SaleTime = sale.CreatedAt
	return sale, nil
}

// SetCustomer links the sale to a customer and records the name and phone
// shown on the receipt
func (s *Sale) SetCustomer(customerID *uuid.UUID, name, phone string) {
	s.CustomerID = customerID
	s.CustomerName = strings.TrimSpace(name)
	s.CustomerPhone = strings.TrimSpace(phone)
}

// AddItem appends a line and folds it into the totals
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity int, unitBuyingPrice, unitSellingPrice decimal.Decimal) (*SaleItem, error) {
	item, err := NewSaleItem(s.ID, productID, productName, quantity, unitBuyingPrice, unitSellingPrice)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, *item)
	s.recalculate()
	return item, nil
}

// ItemCount returns the number of lines
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// TotalQuantity returns the number of units sold across all lines
func (s *Sale) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Validate checks that the sale can be persisted
func (s *Sale) Validate() error {
	if len(s.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Sale must have at least one item")
	}
	if !s.TotalProfit.Equal(s.TotalAmount.Sub(s.TotalCost)) {
		return shared.NewValidationError("INVALID_TOTALS", "Sale profit does not match amount minus cost")
	}
	return nil
}

func (s *Sale) recalculate() {
	amount := decimal.Zero
	cost := decimal.Zero
	for _, item := range s.Items {
		amount = amount.Add(item.TotalAmount)
		cost = cost.Add(item.TotalCost)
	}
	s.TotalAmount = amount
	s.TotalCost = cost
	s.TotalProfit = amount.Sub(cost)
}
