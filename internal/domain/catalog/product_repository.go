package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// ProductListFilter narrows product listings
type ProductListFilter struct {
	shared.Filter
	CategoryID   *uuid.UUID
	SupplierID   *uuid.UUID
	IsActive     *bool
	LowStockOnly bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product within a tenant and locks its row
	// until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindByBarcode finds a product by its barcode within a tenant
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*Product, error)

	// FindAllForTenant lists products for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]Product, error)

	// CountForTenant counts products matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) (int64, error)

	// FindActive returns every active product of a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// FindLowStock returns active products with stock at or below their
	// minimum level, lowest stock first
	FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update writes the product if its stored version still equals
	// product.Version, then advances the version.
	// Returns CONCURRENCY_CONFLICT when the row changed underneath.
	Update(ctx context.Context, product *Product) error

	// UpdateStock writes only the stock column under the same version check
	UpdateStock(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByBarcode checks if another product with the barcode exists in the tenant
	ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string, excludeID *uuid.UUID) (bool, error)

	// CountByCategory counts products in a category
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)

	// CountBySupplier counts products supplied by a supplier
	CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)
}
