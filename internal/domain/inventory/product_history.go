package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of stock movement recorded in the ledger
type TransactionType string

const (
	// TransactionTypeSale is stock leaving through a sale
	TransactionTypeSale TransactionType = "Sale"
	// TransactionTypeSaleCancellation is stock restored by reversing a sale
	TransactionTypeSaleCancellation TransactionType = "Sale Cancellation"
	// TransactionTypePurchase is stock received from a supplier
	TransactionTypePurchase TransactionType = "Purchase"
	// TransactionTypeAdjustment is a manual correction (count, damage, loss)
	TransactionTypeAdjustment TransactionType = "Adjustment"
	// TransactionTypeReturn is stock returned by a customer outside a sale reversal
	TransactionTypeReturn TransactionType = "Return"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale,
		TransactionTypeSaleCancellation,
		TransactionTypePurchase,
		TransactionTypeAdjustment,
		TransactionTypeReturn:
		return true
	}
	return false
}

// IsManual reports whether the type may be recorded through a stock adjustment
// rather than by the sale engines
func (t TransactionType) IsManual() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeAdjustment, TransactionTypeReturn:
		return true
	}
	return false
}

// ProductHistory is an immutable ledger entry for one stock change.
// Once created it is never modified or deleted; corrections are new entries.
type ProductHistory struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	ProductID       uuid.UUID
	TransactionType TransactionType
	QuantityChanged int // Signed: negative for stock leaving
	StockBefore     int
	StockAfter      int
	UnitPrice       *decimal.Decimal
	TotalValue      *decimal.Decimal
	SourceID        *uuid.UUID // Sale that caused the change, if any
	Notes           string
	CreatedBy       *uuid.UUID
	CreatedAt       time.Time
}

// NewProductHistory creates a ledger entry. stockAfter must equal
// stockBefore + quantityChanged and neither may be negative.
func NewProductHistory(
	tenantID uuid.UUID,
	productID uuid.UUID,
	txType TransactionType,
	quantityChanged int,
	stockBefore int,
	stockAfter int,
) (*ProductHistory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if quantityChanged == 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if stockBefore < 0 || stockAfter < 0 {
		return nil, shared.NewValidationError("INVALID_BALANCE", "Stock cannot be negative")
	}
	if stockBefore+quantityChanged != stockAfter {
		return nil, shared.NewValidationError("INVALID_BALANCE",
			fmt.Sprintf("Stock after (%d) must equal stock before (%d) plus change (%d)", stockAfter, stockBefore, quantityChanged))
	}

	return &ProductHistory{
		ID:              uuid.New(),
		TenantID:        tenantID,
		ProductID:       productID,
		TransactionType: txType,
		QuantityChanged: quantityChanged,
		StockBefore:     stockBefore,
		StockAfter:      stockAfter,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// WithPricing records the unit price and derives the total value from the
// absolute quantity
func (h *ProductHistory) WithPricing(unitPrice decimal.Decimal) *ProductHistory {
	qty := h.QuantityChanged
	if qty < 0 {
		qty = -qty
	}
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	h.UnitPrice = &unitPrice
	h.TotalValue = &total
	return h
}

// WithSource links the entry to the document that caused it
func (h *ProductHistory) WithSource(sourceID uuid.UUID) *ProductHistory {
	h.SourceID = &sourceID
	return h
}

// WithNotes sets the free-text note
func (h *ProductHistory) WithNotes(notes string) *ProductHistory {
	h.Notes = notes
	return h
}

// WithOperator records the acting user
func (h *ProductHistory) WithOperator(userID uuid.UUID) *ProductHistory {
	if userID != uuid.Nil {
		h.CreatedBy = &userID
	}
	return h
}

// IsIncrease returns true if stock went up
func (h *ProductHistory) IsIncrease() bool {
	return h.QuantityChanged > 0
}
