package inventory

import (
	"context"

	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// manual stock change touches. If fn returns an error, the transaction is
// rolled back; otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories that share one database
// transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// HistoryRepo returns the append-only ledger repository scoped to the current transaction
	HistoryRepo() inventory.ProductHistoryRepository
}
