package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// SaleListFilter narrows sale listings
type SaleListFilter struct {
	shared.Filter
	From          *time.Time
	To            *time.Time
	CustomerID    *uuid.UUID
	PaymentMethod *PaymentMethod
}

// SaleRepository defines the interface for sale persistence.
// Items are always loaded and written together with their sale.
type SaleRepository interface {
	// FindByIDForTenant finds a sale with its items within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindAllForTenant lists sales with items, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]Sale, error)

	// CountForTenant counts sales matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) (int64, error)

	// Create inserts the sale header and all of its items
	Create(ctx context.Context, sale *Sale) error

	// Delete removes the items and then the header of a sale
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByProduct counts sale lines that reference a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)

	// CountByCustomer counts sales that reference a customer
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}
