package catalog

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SizeAvailability is the per-size availability exposed to shoppers:
// total quantity minus the quantity committed to active orders, computed
// at query time from the stock ledger.
type SizeAvailability struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// SkuView is the read-optimized projection of one SKU flattened together
// with its product attributes. It is derived from the products/skus/stock
// tables on every read and is never materialized or cached, so it cannot
// drift from the ledger.
type SkuView struct {
	SkuID       uuid.UUID          `json:"skuId"`
	ProductID   uuid.UUID          `json:"productId"`
	Target      string             `json:"target"`
	Category1   string             `json:"category_1,omitempty"`
	Category2   string             `json:"category_2,omitempty"`
	Category3   string             `json:"category_3,omitempty"`
	Name        string             `json:"name"`
	Label       string             `json:"label"`
	Tags        pq.StringArray     `json:"tags"`
	Description string             `json:"description"`
	Details     Details            `json:"details"`
	Features    pq.StringArray     `json:"features"`
	Color       string             `json:"color"`
	Images      ImageSets          `json:"images"`
	Pricing     Pricing            `json:"pricing"`
	Sizing      []SizeAvailability `json:"sizing"`
}

// DetailFilter selects SKUs whose attribute Name carries at least one of
// Values. Distinct filters are intersected (AND across names).
type DetailFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"value"`
}

// SkuFilter is the browse filter over the availability view. Price bounds
// apply to the effective price min(price, sale ?? +inf); size filters only
// match sizes with availability >= 1.
type SkuFilter struct {
	Target    string
	Category1 string
	Category2 string
	Category3 string
	Color     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Sizes     []string
	Details   []DetailFilter
}

// DetailFacet lists every distinct value observed for one attribute name
type DetailFacet struct {
	Name   string   `json:"name"`
	Values []string `json:"value"`
}

// Facets drive the search UI: distinct colors, sizes and attribute values
// present within a category subtree, deduplicated by attribute name.
type Facets struct {
	Colors  []string      `json:"colors"`
	Sizes   []string      `json:"sizing"`
	Details []DetailFacet `json:"details"`
}

// LineSnapshot captures the live price, bonuses and requested quantity of
// one SKU/size at order-creation time. Price and bonuses are persisted on
// the order line and never recomputed from the catalog afterwards.
type LineSnapshot struct {
	SkuID    uuid.UUID
	Size     string
	Quantity int
	Price    decimal.Decimal
	Bonuses  decimal.Decimal
}
