package catalog

import (
	"context"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists product aggregates together with their SKUs
// and stock entries
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySkuID(ctx context.Context, skuID uuid.UUID) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkuViewRepository is the query-time projection over products, SKUs and
// the stock ledger. Every read derives availability from the ledger, there
// is no separately maintained counter to invalidate.
type SkuViewRepository interface {
	FindByID(ctx context.Context, skuID uuid.UUID) (*SkuView, error)
	List(ctx context.Context, filter SkuFilter, page shared.Page) (shared.Paginated[SkuView], error)
	Facets(ctx context.Context, filter SkuFilter) (*Facets, error)
	// Availability returns per-size available quantities for one SKU
	Availability(ctx context.Context, skuID uuid.UUID) ([]SizeAvailability, error)
	// Snapshot returns the live price/bonuses for a line if the requested
	// quantity is currently available; ErrSkuNotExists, ErrSkuSizeNotExists
	// or ErrSkuNotAvailable otherwise. This is the advisory pre-check of
	// order creation; the conditional reserve is the actual guarantee.
	Snapshot(ctx context.Context, skuID uuid.UUID, size string, quantity int) (*LineSnapshot, error)
}

// StockLedger mutates stock entries through conditional updates only.
// Both operations are atomic and linearizable per entry: two concurrent
// reserves cannot both succeed when their combined quantity exceeds
// availability.
type StockLedger interface {
	// Reserve debits availability by quantity, guarded by the predicate
	// total - reserved >= quantity.
	Reserve(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error)
	// Release credits availability back, guarded by reserved >= quantity.
	Release(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error)
	// Consume finalizes a reservation on fulfilment: total and reserved
	// both drop by quantity, leaving availability unchanged. Guarded by
	// reserved >= quantity.
	Consume(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error)
}
