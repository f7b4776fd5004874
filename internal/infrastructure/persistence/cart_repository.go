package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/cart"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create persists a new cart with any initial lines
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// FindByToken loads a cart and its lines by capability token
func (r *GormCartRepository) FindByToken(ctx context.Context, token string) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&c, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrCartNotExists
		}
		return nil, err
	}
	return &c, nil
}

// UpsertLine inserts the line or overwrites the quantity of the existing
// (cart, sku, size) line. The unique index on the triple makes the
// overwrite-on-re-add contract hold under concurrent adds too.
func (r *GormCartRepository) UpsertLine(ctx context.Context, line *cart.Line) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "sku_id"}, {Name: "size"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   line.Quantity,
				"updated_at": time.Now(),
			}),
		}).
		Create(line).Error
}

// DeleteLine removes one line, reporting how many rows went away
func (r *GormCartRepository) DeleteLine(ctx context.Context, cartID, skuID uuid.UUID, size string) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&cart.Line{}, "cart_id = ? AND sku_id = ? AND size = ?", cartID, skuID, size)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReplaceLines atomically rewrites the cart's stored lines with the healed
// set
func (r *GormCartRepository) ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []cart.Line) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&cart.Line{}, "cart_id = ?", cartID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].CartID = cartID
		}
		return tx.Create(&lines).Error
	})
}

var _ cart.Repository = (*GormCartRepository)(nil)
