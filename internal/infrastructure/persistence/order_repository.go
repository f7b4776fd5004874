package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/order"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM. Status
// changes go through guarded single-statement updates; the aggregate is
// never saved whole after creation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists the order with its lines
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByID loads an order and its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrderNotExists
		}
		return nil, err
	}
	return &o, nil
}

// FindBySecret resolves a guest order by its capability token
func (r *GormOrderRepository) FindBySecret(ctx context.Context, secret string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "secret = ?", secret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrderNotExists
		}
		return nil, err
	}
	return &o, nil
}

// FindByOwner returns a page of the customer's orders, newest first
func (r *GormOrderRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page shared.Page) (shared.Paginated[order.Order], error) {
	page = page.Normalize(50)

	var total int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&orders).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	return shared.NewPaginated(orders, total, page), nil
}

// UpdateStatus conditionally applies active -> target. Only one of any
// number of concurrent transitions can observe status = active, so stock
// settlement runs at most once per order.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, target order.Status) (shared.CondResult, error) {
	now := time.Now()
	updates := map[string]any{
		"status":     target,
		"updated_at": now,
	}
	if target == order.StatusCancelled {
		updates["cancelled_at"] = now
	}

	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ? AND status = ?", id, order.StatusActive).
		Updates(updates)
	return r.condResult(ctx, id, result)
}

// AdvanceShipping conditionally applies prev(target) -> target while the
// order is still active
func (r *GormOrderRepository) AdvanceShipping(ctx context.Context, id uuid.UUID, target order.ShippingStatus) (shared.CondResult, error) {
	prev, ok := target.Prev()
	if !ok {
		return shared.CondResult{}, shared.ErrInvalidValue
	}

	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ? AND status = ? AND shipping_status = ?", id, order.StatusActive, prev).
		Updates(map[string]any{
			"shipping_status": target,
			"updated_at":      time.Now(),
		})
	return r.condResult(ctx, id, result)
}

func (r *GormOrderRepository) condResult(ctx context.Context, id uuid.UUID, result *gorm.DB) (shared.CondResult, error) {
	if result.Error != nil {
		return shared.CondResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return shared.CondResult{Matched: result.RowsAffected, Modified: result.RowsAffected}, nil
	}
	var matched int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ?", id).
		Count(&matched).Error; err != nil {
		return shared.CondResult{}, err
	}
	return shared.CondResult{Matched: matched}, nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
