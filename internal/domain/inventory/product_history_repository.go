package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// ProductHistoryRepository persists ledger entries. It is append-only:
// there is no update or delete.
type ProductHistoryRepository interface {
	// Create appends one entry
	Create(ctx context.Context, entry *ProductHistory) error

	// CreateBatch appends several entries in order
	CreateBatch(ctx context.Context, entries []*ProductHistory) error

	// FindByProduct lists entries for a product, newest first
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]ProductHistory, error)

	// CountByProduct counts entries for a product
	CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)

	// FindBySource lists entries caused by a document, oldest first
	FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]ProductHistory, error)
}
