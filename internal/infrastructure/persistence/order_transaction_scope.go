package persistence

import (
	"context"

	apporder "github.com/VindFlainger/maplapi/internal/application/order"
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransactionScope implements the order protocol's TransactionScope
// using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Orders returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// Stock returns the stock ledger scoped to the current transaction
func (r *gormTransactionalRepositories) Stock() catalog.StockLedger {
	return NewGormStockLedger(r.tx)
}

var _ apporder.TransactionScope = (*GormTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
