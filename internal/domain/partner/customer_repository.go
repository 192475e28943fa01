package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate finds a customer within a tenant and locks its row
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAllForTenant lists customers, searching name, phone and email
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// CountForTenant counts customers matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update writes the customer under a version check and advances the version
	Update(ctx context.Context, customer *Customer) error

	// DeleteForTenant deletes a customer within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
