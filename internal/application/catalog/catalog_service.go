package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FacetCache is an optional read-through cache for facet queries. Facets
// carry no availability data, so serving slightly stale entries is safe;
// availability itself is never cached anywhere.
type FacetCache interface {
	Get(ctx context.Context, key string) (*catalog.Facets, bool)
	Set(ctx context.Context, key string, facets *catalog.Facets)
}

// Service handles catalog browsing and supplier imports
type Service struct {
	products   catalog.ProductRepository
	skuViews   catalog.SkuViewRepository
	facetCache FacetCache
}

// NewService creates a new catalog Service. facetCache may be nil, in which
// case every facet query hits the store.
func NewService(products catalog.ProductRepository, skuViews catalog.SkuViewRepository, facetCache FacetCache) *Service {
	return &Service{
		products:   products,
		skuViews:   skuViews,
		facetCache: facetCache,
	}
}

// GetSku returns the full projection of one SKU with live availability
func (s *Service) GetSku(ctx context.Context, skuID uuid.UUID) (*catalog.SkuView, error) {
	return s.skuViews.FindByID(ctx, skuID)
}

// List returns a page of SKU projections matching the browse filter
func (s *Service) List(ctx context.Context, q ListSkusQuery) (shared.Paginated[catalog.SkuView], error) {
	return s.skuViews.List(ctx, q.Filter(), q.Page())
}

// Facets returns the distinct colors, sizes and attribute values present
// within the filtered subtree
func (s *Service) Facets(ctx context.Context, q ListSkusQuery) (*catalog.Facets, error) {
	filter := q.Filter()
	key := facetCacheKey(filter)
	if s.facetCache != nil {
		if facets, ok := s.facetCache.Get(ctx, key); ok {
			return facets, nil
		}
	}
	facets, err := s.skuViews.Facets(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.facetCache != nil {
		s.facetCache.Set(ctx, key, facets)
	}
	return facets, nil
}

// Availability returns per-size sellable quantities for one SKU, derived
// from the stock ledger at call time
func (s *Service) Availability(ctx context.Context, skuID uuid.UUID) ([]catalog.SizeAvailability, error) {
	return s.skuViews.Availability(ctx, skuID)
}

// GetProduct returns a product aggregate with its SKUs and stock
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ImportProduct ingests a supplier feed entry: one product with its
// variants and initial stock. Feed pricing is normalized so the stored sale
// always undercuts the regular price; a sale at or above the price is
// discarded rather than rejected, feeds are too dirty to bounce on it.
func (s *Service) ImportProduct(ctx context.Context, req ImportProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.Target, req.Name, req.Label, req.Description)
	if err != nil {
		return nil, err
	}
	product.Category1 = req.Category1
	product.Category2 = req.Category2
	product.Category3 = req.Category3
	product.FreeDescription = req.FreeDescription
	product.Tags = pq.StringArray(req.Tags)
	product.Features = pq.StringArray(req.Features)
	if req.Details != nil {
		product.Details = req.Details
	}

	if len(req.Skus) == 0 {
		return nil, shared.ErrFieldRequired
	}
	for _, data := range req.Skus {
		pricing := normalizePricing(data.Price, data.Sale, data.Bonuses)
		if _, err := product.AddSku(data.Color, pricing, data.Images, data.Sizing); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its SKUs from the catalog. Historical
// orders keep their line snapshots and are unaffected.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

// normalizePricing drops a sale that fails to undercut the price, so the
// stored pair always satisfies the discount invariant and the buyer-facing
// price stays min(price, sale).
func normalizePricing(price decimal.Decimal, sale *decimal.Decimal, bonuses decimal.Decimal) catalog.Pricing {
	if sale != nil && sale.GreaterThanOrEqual(price) {
		sale = nil
	}
	return catalog.Pricing{Price: price, Sale: sale, Bonuses: bonuses}
}

func facetCacheKey(f catalog.SkuFilter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "facets:%s:%s:%s:%s:%s", f.Target, f.Category1, f.Category2, f.Category3, f.Color)
	if f.MinPrice != nil {
		fmt.Fprintf(&b, ":min=%s", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, ":max=%s", f.MaxPrice.String())
	}
	if len(f.Sizes) > 0 {
		sizes := append([]string(nil), f.Sizes...)
		sort.Strings(sizes)
		fmt.Fprintf(&b, ":sizes=%s", strings.Join(sizes, ","))
	}
	for _, d := range f.Details {
		values := append([]string(nil), d.Values...)
		sort.Strings(values)
		fmt.Fprintf(&b, ":d[%s]=%s", d.Name, strings.Join(values, ","))
	}
	return b.String()
}
