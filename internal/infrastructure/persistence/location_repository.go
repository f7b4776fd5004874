package persistence

import (
	"context"
	"errors"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/VindFlainger/maplapi/internal/domain/shipping"
	"gorm.io/gorm"
)

// GormLocationRepository implements shipping.Repository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByCode resolves one destination; unknown codes surface as
// ErrLocationNotAvailable so order creation fails cleanly
func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*shipping.Location, error) {
	var location shipping.Location
	if err := r.db.WithContext(ctx).First(&location, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrLocationNotAvailable
		}
		return nil, err
	}
	return &location, nil
}

// ListByLanguage returns every destination. Titles resolve per language at
// the application layer; the language only orders results consistently.
func (r *GormLocationRepository) ListByLanguage(ctx context.Context, _ string) ([]shipping.Location, error) {
	var locations []shipping.Location
	if err := r.db.WithContext(ctx).Order("code").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

var _ shipping.Repository = (*GormLocationRepository)(nil)
