package trade

import (
	"context"

	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. The transaction commits when fn returns nil and is
// rolled back when fn returns an error, panics or ctx is cancelled.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories a sale or its reversal
// touches. All of them are bound to the same transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	SaleRepo() trade.SaleRepository
	CustomerRepo() partner.CustomerRepository
	HistoryRepo() inventory.ProductHistoryRepository
}
