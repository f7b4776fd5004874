package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists carts keyed by their unguessable token. The token is
// the only lookup key exposed to clients; internal UUIDs never leave the
// store.
type Repository interface {
	Create(ctx context.Context, cart *Cart) error
	// FindByToken loads the cart and its lines; ErrCartNotExists if the
	// token resolves to nothing.
	FindByToken(ctx context.Context, token string) (*Cart, error)
	// UpsertLine inserts the line or overwrites the quantity of the
	// existing (cart, sku, size) line.
	UpsertLine(ctx context.Context, line *Line) error
	// DeleteLine removes one line, reporting the number of rows removed so
	// the caller can distinguish a missing line from a missing cart.
	DeleteLine(ctx context.Context, cartID, skuID uuid.UUID, size string) (int64, error)
	// ReplaceLines atomically rewrites the cart's stored lines with the
	// given healed set (the write-back half of the self-healing read).
	ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []Line) error
}
