package order

import (
	"context"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories the
// order protocol touches. Everything executed within one scope commits or
// rolls back atomically: a failed stock reservation leaves no order row
// behind, and a failed cancellation re-credits nothing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the order repository and the
// stock ledger within one transaction. Both share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.Repository
	// Stock returns the stock ledger scoped to the current transaction
	Stock() catalog.StockLedger
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful for tests.
type NoOpTransactionScope struct {
	orders order.Repository
	stock  catalog.StockLedger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories
func NewNoOpTransactionScope(orders order.Repository, stock catalog.StockLedger) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orders: orders,
		stock:  stock,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orders
}

// Stock returns the stock ledger
func (s *NoOpTransactionScope) Stock() catalog.StockLedger {
	return s.stock
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
