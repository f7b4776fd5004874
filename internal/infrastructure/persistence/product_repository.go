package persistence

import (
	"context"
	"errors"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its SKUs and stock entries
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Skus.Sizing").
		Preload("Skus").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProductNotExists
		}
		return nil, err
	}
	return &product, nil
}

// FindBySkuID finds the product owning the given SKU
func (r *GormProductRepository) FindBySkuID(ctx context.Context, skuID uuid.UUID) (*catalog.Product, error) {
	var sku catalog.Sku
	if err := r.db.WithContext(ctx).First(&sku, "id = ?", skuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrSkuNotExists
		}
		return nil, err
	}
	return r.FindByID(ctx, sku.ProductID)
}

// Save persists the product aggregate with its SKUs and stock entries
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(product).Error
}

// Delete removes the product with its SKUs and stock entries. Order lines
// keep their snapshots; nothing cascades into historical orders.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var skuIDs []uuid.UUID
		if err := tx.Model(&catalog.Sku{}).Where("product_id = ?", id).Pluck("id", &skuIDs).Error; err != nil {
			return err
		}
		if len(skuIDs) > 0 {
			if err := tx.Delete(&catalog.StockEntry{}, "sku_id IN ?", skuIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&catalog.Sku{}, "id IN ?", skuIDs).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrProductNotExists
		}
		return nil
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
