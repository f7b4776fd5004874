package cart

import (
	"context"
	"errors"

	"github.com/VindFlainger/maplapi/internal/domain/cart"
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line joined with its live catalog data. Price and sale
// are the current catalog values, not snapshots; Available reflects the
// stock ledger at read time.
type Item struct {
	SkuID     uuid.UUID         `json:"skuId"`
	ProductID uuid.UUID         `json:"productId"`
	Size      string            `json:"size"`
	Quantity  int               `json:"quantity"`
	Available int               `json:"available"`
	Name      string            `json:"name"`
	Label     string            `json:"label"`
	Color     string            `json:"color"`
	Price     decimal.Decimal   `json:"price"`
	Sale      *decimal.Decimal  `json:"sale,omitempty"`
	Bonuses   decimal.Decimal   `json:"bonuses"`
	Images    catalog.ImageSets `json:"images"`
}

// Service handles the anonymous cart lifecycle
type Service struct {
	carts    cart.Repository
	skuViews catalog.SkuViewRepository
}

// NewService creates a new cart Service
func NewService(carts cart.Repository, skuViews catalog.SkuViewRepository) *Service {
	return &Service{
		carts:    carts,
		skuViews: skuViews,
	}
}

// Create issues an empty cart and returns its capability token
func (s *Service) Create(ctx context.Context) (string, error) {
	c := cart.New()
	if err := s.carts.Create(ctx, c); err != nil {
		return "", err
	}
	return c.Token, nil
}

// AddItem puts (sku, size, quantity) into the cart, overwriting the
// quantity of an existing line. The SKU and size must exist in the catalog,
// but the quantity is deliberately not checked against availability:
// validation happens on read and, authoritatively, at order creation.
func (s *Service) AddItem(ctx context.Context, token string, skuID uuid.UUID, size string, quantity int) error {
	if quantity < 1 {
		return shared.ErrInvalidValue
	}

	c, err := s.carts.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	view, err := s.skuViews.FindByID(ctx, skuID)
	if err != nil {
		return err
	}
	if !hasSize(view, size) {
		return shared.ErrSkuSizeNotExists
	}

	if err := c.SetLine(skuID, size, quantity); err != nil {
		return err
	}
	return s.carts.UpsertLine(ctx, c.Line(skuID, size))
}

// RemoveItem deletes one (sku, size) line from the cart
func (s *Service) RemoveItem(ctx context.Context, token string, skuID uuid.UUID, size string) error {
	c, err := s.carts.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	removed, err := s.carts.DeleteLine(ctx, c.ID, skuID, size)
	if err != nil {
		return err
	}
	if removed == 0 {
		return shared.ErrCartItemNotExists
	}
	return nil
}

// GetItems returns the cart joined with live catalog data, healing the
// stored lines on the way: lines whose SKU or size no longer exists are
// dropped, and quantities above current availability are clamped down.
// The healed set is written back, so a later order attempt built from this
// read starts from reconcilable quantities.
func (s *Service) GetItems(ctx context.Context, token string) ([]Item, error) {
	c, err := s.carts.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	views := make(map[uuid.UUID]*catalog.SkuView)
	for _, line := range c.Lines {
		if _, ok := views[line.SkuID]; ok {
			continue
		}
		view, err := s.skuViews.FindByID(ctx, line.SkuID)
		if err != nil {
			if errors.Is(err, shared.ErrSkuNotExists) {
				views[line.SkuID] = nil
				continue
			}
			return nil, err
		}
		views[line.SkuID] = view
	}

	items := make([]Item, 0, len(c.Lines))
	healed := make([]cart.Line, 0, len(c.Lines))
	dirty := false

	for _, line := range c.Lines {
		view := views[line.SkuID]
		if view == nil {
			dirty = true
			continue
		}
		available, ok := sizeAvailability(view, line.Size)
		if !ok || available < 1 {
			dirty = true
			continue
		}
		if line.Quantity > available {
			line.Quantity = available
			dirty = true
		}
		healed = append(healed, line)
		items = append(items, Item{
			SkuID:     view.SkuID,
			ProductID: view.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Available: available,
			Name:      view.Name,
			Label:     view.Label,
			Color:     view.Color,
			Price:     view.Pricing.Price,
			Sale:      view.Pricing.Sale,
			Bonuses:   view.Pricing.Bonuses,
			Images:    view.Images,
		})
	}

	if dirty {
		if err := s.carts.ReplaceLines(ctx, c.ID, healed); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Merge folds the source cart's lines into the target cart and returns
// the target's enriched items. On a (sku, size) collision the source
// quantity wins. The source cart is left untouched; the shopper's device
// forgets its token after a successful merge.
func (s *Service) Merge(ctx context.Context, targetToken, sourceToken string) ([]Item, error) {
	target, err := s.carts.FindByToken(ctx, targetToken)
	if err != nil {
		return nil, err
	}
	source, err := s.carts.FindByToken(ctx, sourceToken)
	if err != nil {
		return nil, err
	}

	for _, line := range target.MergeFrom(source) {
		line := line
		if err := s.carts.UpsertLine(ctx, &line); err != nil {
			return nil, err
		}
	}
	return s.GetItems(ctx, targetToken)
}

func hasSize(view *catalog.SkuView, size string) bool {
	for _, s := range view.Sizing {
		if s.Size == size {
			return true
		}
	}
	return false
}

func sizeAvailability(view *catalog.SkuView, size string) (int, bool) {
	for _, s := range view.Sizing {
		if s.Size == size {
			return s.Quantity, true
		}
	}
	return 0, false
}
