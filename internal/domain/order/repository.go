package order

import (
	"context"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists order aggregates. Status mutations go through the
// conditional updates below, never through whole-aggregate saves, so two
// concurrent transitions on the same order cannot both succeed.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindBySecret resolves a guest order by its capability token
	FindBySecret(ctx context.Context, secret string) (*Order, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page shared.Page) (shared.Paginated[Order], error)
	// UpdateStatus conditionally applies active -> target. matched=0 means
	// the order does not exist; modified=0 means it already left active.
	UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (shared.CondResult, error)
	// AdvanceShipping conditionally applies prev(target) -> target on the
	// fulfilment sub-state.
	AdvanceShipping(ctx context.Context, id uuid.UUID, target ShippingStatus) (shared.CondResult, error)
}
