package shipping

import (
	"context"

	"github.com/VindFlainger/maplapi/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// LocationResponse is one shipping destination with its localized title
type LocationResponse struct {
	Code  string          `json:"code"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// Service exposes the shipping destinations catalog
type Service struct {
	locations shipping.Repository
}

// NewService creates a new shipping Service
func NewService(locations shipping.Repository) *Service {
	return &Service{locations: locations}
}

// List returns every destination the store ships to, titled in the
// requested language with the code as fallback
func (s *Service) List(ctx context.Context, language string) ([]LocationResponse, error) {
	locations, err := s.locations.ListByLanguage(ctx, language)
	if err != nil {
		return nil, err
	}
	out := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, LocationResponse{
			Code:  locations[i].Code,
			Title: locations[i].Title(language),
			Price: locations[i].Price,
		})
	}
	return out, nil
}

// Price returns the shipping price for a destination code
func (s *Service) Price(ctx context.Context, code string) (decimal.Decimal, error) {
	location, err := s.locations.FindByCode(ctx, code)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return location.Price, nil
}
