package persistence

import (
	"context"
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLedger implements catalog.StockLedger with single-statement
// conditional updates. The guard predicate travels inside the UPDATE, so
// the check and the write are one atomic step: under any isolation level
// two racing reserves serialize on the row lock and the loser's predicate
// re-evaluates against the winner's committed value.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// Reserve debits availability, guarded by total - reserved >= quantity
func (l *GormStockLedger) Reserve(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error) {
	result := l.db.WithContext(ctx).Model(&catalog.StockEntry{}).
		Where("sku_id = ? AND size = ? AND total_quantity - reserved_quantity >= ?", skuID, size, quantity).
		Updates(map[string]any{
			"reserved_quantity": gorm.Expr("reserved_quantity + ?", quantity),
			"updated_at":        time.Now(),
		})
	return l.condResult(ctx, skuID, size, result)
}

// Release credits availability back, guarded by reserved >= quantity
func (l *GormStockLedger) Release(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error) {
	result := l.db.WithContext(ctx).Model(&catalog.StockEntry{}).
		Where("sku_id = ? AND size = ? AND reserved_quantity >= ?", skuID, size, quantity).
		Updates(map[string]any{
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
			"updated_at":        time.Now(),
		})
	return l.condResult(ctx, skuID, size, result)
}

// Consume finalizes a reservation: total and reserved drop together so
// availability is unchanged
func (l *GormStockLedger) Consume(ctx context.Context, skuID uuid.UUID, size string, quantity int) (shared.CondResult, error) {
	result := l.db.WithContext(ctx).Model(&catalog.StockEntry{}).
		Where("sku_id = ? AND size = ? AND reserved_quantity >= ? AND total_quantity >= ?", skuID, size, quantity, quantity).
		Updates(map[string]any{
			"total_quantity":    gorm.Expr("total_quantity - ?", quantity),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", quantity),
			"updated_at":        time.Now(),
		})
	return l.condResult(ctx, skuID, size, result)
}

// condResult translates RowsAffected into matched/modified counts. When
// the guarded update touched nothing, a key-only count distinguishes a
// missing entry from a predicate that did not hold.
func (l *GormStockLedger) condResult(ctx context.Context, skuID uuid.UUID, size string, result *gorm.DB) (shared.CondResult, error) {
	if result.Error != nil {
		return shared.CondResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return shared.CondResult{Matched: result.RowsAffected, Modified: result.RowsAffected}, nil
	}
	var matched int64
	if err := l.db.WithContext(ctx).Model(&catalog.StockEntry{}).
		Where("sku_id = ? AND size = ?", skuID, size).
		Count(&matched).Error; err != nil {
		return shared.CondResult{}, err
	}
	return shared.CondResult{Matched: matched}, nil
}

var _ catalog.StockLedger = (*GormStockLedger)(nil)
