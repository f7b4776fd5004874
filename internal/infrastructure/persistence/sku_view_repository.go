package persistence

import (
	"context"
	"strings"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSkuViewRepository implements catalog.SkuViewRepository. Every method
// derives the projection from the products/skus/stock_entries tables at
// query time; nothing here is materialized, cached or denormalized, so the
// availability a shopper sees is always the ledger's current truth.
type GormSkuViewRepository struct {
	db *gorm.DB
}

// NewGormSkuViewRepository creates a new GormSkuViewRepository
func NewGormSkuViewRepository(db *gorm.DB) *GormSkuViewRepository {
	return &GormSkuViewRepository{db: db}
}

const skuViewSelect = `
SELECT s.id AS sku_id, s.product_id, p.target, p.category1, p.category2, p.category3,
       p.name, p.label, p.tags, p.description, p.details, p.features,
       s.color, s.images,
       s.pricing_price AS price, s.pricing_sale AS sale, s.pricing_bonuses AS bonuses
FROM skus s
JOIN products p ON p.id = s.product_id`

type skuRow struct {
	SkuID       uuid.UUID
	ProductID   uuid.UUID
	Target      string
	Category1   string
	Category2   string
	Category3   string
	Name        string
	Label       string
	Tags        pq.StringArray
	Description string
	Details     catalog.Details
	Features    pq.StringArray
	Color       string
	Images      catalog.ImageSets
	Price       decimal.Decimal
	Sale        *decimal.Decimal
	Bonuses     decimal.Decimal
}

func (row *skuRow) toView(sizing []catalog.SizeAvailability) catalog.SkuView {
	return catalog.SkuView{
		SkuID:       row.SkuID,
		ProductID:   row.ProductID,
		Target:      row.Target,
		Category1:   row.Category1,
		Category2:   row.Category2,
		Category3:   row.Category3,
		Name:        row.Name,
		Label:       row.Label,
		Tags:        row.Tags,
		Description: row.Description,
		Details:     row.Details,
		Features:    row.Features,
		Color:       row.Color,
		Images:      row.Images,
		Pricing:     catalog.Pricing{Price: row.Price, Sale: row.Sale, Bonuses: row.Bonuses},
		Sizing:      sizing,
	}
}

// filterSQL renders the browse filter as WHERE fragments over the s/p
// aliases of skuViewSelect
func filterSQL(f catalog.SkuFilter) (string, []any) {
	conds := []string{"1=1"}
	var args []any

	if f.Target != "" {
		conds = append(conds, "p.target = ?")
		args = append(args, f.Target)
	}
	if f.Category1 != "" {
		conds = append(conds, "p.category1 = ?")
		args = append(args, f.Category1)
	}
	if f.Category2 != "" {
		conds = append(conds, "p.category2 = ?")
		args = append(args, f.Category2)
	}
	if f.Category3 != "" {
		conds = append(conds, "p.category3 = ?")
		args = append(args, f.Category3)
	}
	if f.Color != "" {
		conds = append(conds, "s.color = ?")
		args = append(args, f.Color)
	}
	// price bounds apply to the effective price: min(price, sale)
	if f.MinPrice != nil {
		conds = append(conds, "LEAST(s.pricing_price, COALESCE(s.pricing_sale, s.pricing_price)) >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "LEAST(s.pricing_price, COALESCE(s.pricing_sale, s.pricing_price)) <= ?")
		args = append(args, *f.MaxPrice)
	}
	// size filters only match sizes that are actually sellable right now
	if len(f.Sizes) > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM stock_entries e
			WHERE e.sku_id = s.id AND e.size = ANY(?) AND e.total_quantity - e.reserved_quantity >= 1)`)
		args = append(args, pq.Array(f.Sizes))
	}
	// each attribute filter must match (AND across names), any listed value
	// satisfies one filter (OR within values)
	for _, d := range f.Details {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM jsonb_array_elements(p.details) AS d(detail)
			WHERE d.detail->>'name' = ? AND jsonb_exists_any(d.detail->'value', ?))`)
		args = append(args, d.Name, pq.Array(d.Values))
	}

	return strings.Join(conds, " AND "), args
}

// FindByID returns the full projection of one SKU
func (r *GormSkuViewRepository) FindByID(ctx context.Context, skuID uuid.UUID) (*catalog.SkuView, error) {
	var row skuRow
	result := r.db.WithContext(ctx).Raw(skuViewSelect+" WHERE s.id = ?", skuID).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrSkuNotExists
	}

	sizing, err := r.sizingFor(ctx, []uuid.UUID{skuID})
	if err != nil {
		return nil, err
	}
	view := row.toView(sizing[skuID])
	return &view, nil
}

// List returns a page of projections matching the browse filter
func (r *GormSkuViewRepository) List(ctx context.Context, filter catalog.SkuFilter, page shared.Page) (shared.Paginated[catalog.SkuView], error) {
	page = page.Normalize(50)
	where, args := filterSQL(filter)

	var total int64
	countSQL := "SELECT COUNT(*) FROM skus s JOIN products p ON p.id = s.product_id WHERE " + where
	if err := r.db.WithContext(ctx).Raw(countSQL, args...).Scan(&total).Error; err != nil {
		return shared.Paginated[catalog.SkuView]{}, err
	}

	var rows []skuRow
	listSQL := skuViewSelect + " WHERE " + where + " ORDER BY p.created_at DESC, s.id LIMIT ? OFFSET ?"
	listArgs := append(append([]any{}, args...), page.Limit, page.Offset)
	if err := r.db.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&rows).Error; err != nil {
		return shared.Paginated[catalog.SkuView]{}, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].SkuID)
	}
	sizing, err := r.sizingFor(ctx, ids)
	if err != nil {
		return shared.Paginated[catalog.SkuView]{}, err
	}

	views := make([]catalog.SkuView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].toView(sizing[rows[i].SkuID]))
	}
	return shared.NewPaginated(views, total, page), nil
}

// Facets aggregates the distinct colors, sellable sizes and attribute
// values present within the filtered subtree
func (r *GormSkuViewRepository) Facets(ctx context.Context, filter catalog.SkuFilter) (*catalog.Facets, error) {
	where, args := filterSQL(filter)
	facets := &catalog.Facets{}

	colorsSQL := "SELECT DISTINCT s.color FROM skus s JOIN products p ON p.id = s.product_id WHERE " + where + " ORDER BY s.color"
	if err := r.db.WithContext(ctx).Raw(colorsSQL, args...).Scan(&facets.Colors).Error; err != nil {
		return nil, err
	}

	sizesSQL := `SELECT DISTINCT e.size
		FROM stock_entries e
		JOIN skus s ON s.id = e.sku_id
		JOIN products p ON p.id = s.product_id
		WHERE e.total_quantity - e.reserved_quantity >= 1 AND ` + where + " ORDER BY e.size"
	if err := r.db.WithContext(ctx).Raw(sizesSQL, args...).Scan(&facets.Sizes).Error; err != nil {
		return nil, err
	}

	detailsSQL := `SELECT d.detail->>'name' AS name, v.value AS value
		FROM skus s
		JOIN products p ON p.id = s.product_id
		CROSS JOIN LATERAL jsonb_array_elements(p.details) AS d(detail)
		CROSS JOIN LATERAL jsonb_array_elements_text(d.detail->'value') AS v(value)
		WHERE ` + where + ` GROUP BY 1, 2 ORDER BY 1, 2`
	var detailRows []struct {
		Name  string
		Value string
	}
	if err := r.db.WithContext(ctx).Raw(detailsSQL, args...).Scan(&detailRows).Error; err != nil {
		return nil, err
	}
	for _, row := range detailRows {
		n := len(facets.Details)
		if n > 0 && facets.Details[n-1].Name == row.Name {
			facets.Details[n-1].Values = append(facets.Details[n-1].Values, row.Value)
			continue
		}
		facets.Details = append(facets.Details, catalog.DetailFacet{Name: row.Name, Values: []string{row.Value}})
	}

	return facets, nil
}

// Availability returns per-size sellable quantities for one SKU
func (r *GormSkuViewRepository) Availability(ctx context.Context, skuID uuid.UUID) ([]catalog.SizeAvailability, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&catalog.Sku{}).Where("id = ?", skuID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, shared.ErrSkuNotExists
	}

	sizing, err := r.sizingFor(ctx, []uuid.UUID{skuID})
	if err != nil {
		return nil, err
	}
	return sizing[skuID], nil
}

// Snapshot reads the live effective price and bonuses of one (sku, size)
// if the requested quantity is currently available. This is the advisory
// pre-check of order creation: the conditional reserve that follows is the
// operation that actually guarantees the stock.
func (r *GormSkuViewRepository) Snapshot(ctx context.Context, skuID uuid.UUID, size string, quantity int) (*catalog.LineSnapshot, error) {
	var row struct {
		Price     decimal.Decimal
		Bonuses   decimal.Decimal
		HasSize   bool
		Available int
	}
	result := r.db.WithContext(ctx).Raw(`
		SELECT LEAST(s.pricing_price, COALESCE(s.pricing_sale, s.pricing_price)) AS price,
		       s.pricing_bonuses AS bonuses,
		       e.sku_id IS NOT NULL AS has_size,
		       COALESCE(e.total_quantity - e.reserved_quantity, 0) AS available
		FROM skus s
		LEFT JOIN stock_entries e ON e.sku_id = s.id AND e.size = ?
		WHERE s.id = ?`, size, skuID).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrSkuNotExists
	}
	if !row.HasSize {
		return nil, shared.ErrSkuSizeNotExists
	}
	if row.Available < quantity {
		return nil, shared.ErrSkuNotAvailable
	}

	return &catalog.LineSnapshot{
		SkuID:    skuID,
		Size:     size,
		Quantity: quantity,
		Price:    row.Price,
		Bonuses:  row.Bonuses,
	}, nil
}

// sizingFor loads derived availability for a set of SKUs in one query
func (r *GormSkuViewRepository) sizingFor(ctx context.Context, skuIDs []uuid.UUID) (map[uuid.UUID][]catalog.SizeAvailability, error) {
	out := make(map[uuid.UUID][]catalog.SizeAvailability, len(skuIDs))
	if len(skuIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(skuIDs))
	for _, id := range skuIDs {
		ids = append(ids, id.String())
	}

	var rows []struct {
		SkuID    uuid.UUID
		Size     string
		Quantity int
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT sku_id, size, total_quantity - reserved_quantity AS quantity
		FROM stock_entries
		WHERE sku_id = ANY(?::uuid[])
		ORDER BY sku_id, size`, pq.Array(ids)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SkuID] = append(out[row.SkuID], catalog.SizeAvailability{Size: row.Size, Quantity: row.Quantity})
	}
	return out, nil
}

var _ catalog.SkuViewRepository = (*GormSkuViewRepository)(nil)
