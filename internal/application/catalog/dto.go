package catalog

import (
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListSkusQuery carries the browse filter and page window as received from
// the interface layer
type ListSkusQuery struct {
	Target    string
	Category1 string
	Category2 string
	Category3 string
	Color     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Sizes     []string
	Details   []catalog.DetailFilter
	Offset    int
	Limit     int
}

// Filter converts the query into the domain browse filter
func (q ListSkusQuery) Filter() catalog.SkuFilter {
	return catalog.SkuFilter{
		Target:    q.Target,
		Category1: q.Category1,
		Category2: q.Category2,
		Category3: q.Category3,
		Color:     q.Color,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		Sizes:     q.Sizes,
		Details:   q.Details,
	}
}

// Page returns the normalized page window
func (q ListSkusQuery) Page() shared.Page {
	return shared.Page{Offset: q.Offset, Limit: q.Limit}
}

// ImportSkuData is one variant of an imported product
type ImportSkuData struct {
	Color   string
	Price   decimal.Decimal
	Sale    *decimal.Decimal
	Bonuses decimal.Decimal
	Images  catalog.ImageSets
	Sizing  map[string]int
}

// ImportProductRequest is the supplier-feed payload for creating a product
// with its variants and initial stock
type ImportProductRequest struct {
	Target          string
	Category1       string
	Category2       string
	Category3       string
	Name            string
	Label           string
	Tags            []string
	Description     string
	FreeDescription string
	Details         catalog.Details
	Features        []string
	Skus            []ImportSkuData
}
