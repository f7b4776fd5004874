package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SizedImage is one rendition of a SKU photo. URLs are composed at the
// interface layer from the configured asset base, the stored value is only
// the object name.
type SizedImage struct {
	Size  int    `json:"size"`
	Image string `json:"image"`
}

// ImageSet is the set of renditions for a single photo
type ImageSet []SizedImage

// ImageSets holds every photo of a SKU, serialized as a JSONB column
type ImageSets []ImageSet

// Value implements driver.Valuer
func (s ImageSets) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// Scan implements sql.Scanner
func (s *ImageSets) Scan(src any) error {
	return scanJSON(src, s)
}

// Detail is a structured attribute of a product (e.g. material: [cotton])
type Detail struct {
	Name  string   `json:"name"`
	Value []string `json:"value"`
}

// Details is the attribute list, serialized as a JSONB column
type Details []Detail

// Value implements driver.Valuer
func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	return string(b), err
}

// Scan implements sql.Scanner
func (d *Details) Scan(src any) error {
	return scanJSON(src, d)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("catalog: unsupported column type for JSON scan")
	}
}

// Pricing holds the commercial attributes of a SKU. Sale, when present,
// must undercut Price; bonuses accrue to the buyer's account on purchase.
type Pricing struct {
	Price   decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	Sale    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale,omitempty"`
	Bonuses decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"bonuses"`
}

// Effective returns the price a buyer actually pays: min(price, sale)
// with an absent sale treated as no discount.
func (p Pricing) Effective() decimal.Decimal {
	if p.Sale != nil && p.Sale.LessThan(p.Price) {
		return *p.Sale
	}
	return p.Price
}

// Validate enforces the sale-must-discount invariant at write time
func (p Pricing) Validate() error {
	if p.Price.IsNegative() {
		return shared.ErrInvalidValue
	}
	if p.Sale != nil && p.Sale.GreaterThanOrEqual(p.Price) {
		return shared.NewDomainError(shared.ErrInvalidValue.Code, "sale price must be lower than the regular price")
	}
	if p.Bonuses.IsNegative() {
		return shared.ErrInvalidValue
	}
	return nil
}

// StockEntry is the stock ledger record for one size of one SKU.
// ReservedQuantity equals the summed quantity of active order lines
// referencing this entry; available stock is always derived, never stored.
// Entries are mutated only by the conditional Reserve/Release operations of
// the StockLedger, never by cart operations.
type StockEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	SkuID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_sku_size,priority:1" json:"-"`
	Size             string    `gorm:"size:20;not null;uniqueIndex:idx_stock_sku_size,priority:2" json:"size"`
	TotalQuantity    int       `gorm:"not null" json:"-"`
	ReservedQuantity int       `gorm:"not null;default:0" json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// Available returns the quantity still sellable for this size
func (e *StockEntry) Available() int {
	return e.TotalQuantity - e.ReservedQuantity
}

// Sku is a purchasable variant (color) of a product, split into sized
// stock entries. Orders reference SKUs by identifier only: deleting a SKU
// never cascades into historical orders.
type Sku struct {
	shared.BaseEntity
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Color     string       `gorm:"size:40;not null"`
	Images    ImageSets    `gorm:"type:jsonb;not null;default:'[]'"`
	Pricing   Pricing      `gorm:"embedded;embeddedPrefix:pricing_"`
	Sizing    []StockEntry `gorm:"foreignKey:SkuID;references:ID"`
}

// TableName returns the table name for GORM
func (Sku) TableName() string {
	return "skus"
}

// SizeEntry returns the stock entry for the given size, or nil
func (s *Sku) SizeEntry(size string) *StockEntry {
	for i := range s.Sizing {
		if s.Sizing[i].Size == size {
			return &s.Sizing[i]
		}
	}
	return nil
}

// Product is the aggregate root owning SKUs and their stock ledger entries
type Product struct {
	shared.BaseAggregateRoot
	Target          string         `gorm:"size:30;not null;index"`
	Category1       string         `gorm:"size:50;index"`
	Category2       string         `gorm:"size:50;index"`
	Category3       string         `gorm:"size:50;index"`
	Name            string         `gorm:"size:100;not null"`
	Label           string         `gorm:"size:50;not null"`
	Tags            pq.StringArray `gorm:"type:text[]"`
	Description     string         `gorm:"size:1000;not null"`
	FreeDescription string         `gorm:"size:10000"`
	Details         Details        `gorm:"type:jsonb;not null;default:'[]'"`
	Features        pq.StringArray `gorm:"type:text[]"`
	Skus            []Sku          `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product aggregate with basic field validation
func NewProduct(target, name, label, description string) (*Product, error) {
	if target == "" || name == "" || label == "" || description == "" {
		return nil, shared.ErrFieldRequired
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Target:            target,
		Name:              name,
		Label:             label,
		Description:       description,
		Tags:              pq.StringArray{},
		Details:           Details{},
		Features:          pq.StringArray{},
	}, nil
}

// AddSku attaches a new SKU with its sized stock to the product
func (p *Product) AddSku(color string, pricing Pricing, images ImageSets, sizing map[string]int) (*Sku, error) {
	if color == "" {
		return nil, shared.ErrFieldRequired
	}
	if err := pricing.Validate(); err != nil {
		return nil, err
	}
	sku := Sku{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Color:      color,
		Images:     images,
		Pricing:    pricing,
	}
	for size, qty := range sizing {
		if size == "" || qty < 0 {
			return nil, shared.ErrInvalidValue
		}
		sku.Sizing = append(sku.Sizing, StockEntry{
			ID:            uuid.New(),
			SkuID:         sku.ID,
			Size:          size,
			TotalQuantity: qty,
			UpdatedAt:     time.Now(),
		})
	}
	p.Skus = append(p.Skus, sku)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return &p.Skus[len(p.Skus)-1], nil
}
