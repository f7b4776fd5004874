package cart

import (
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
)

// Line is one desired (sku, size, quantity) tuple. A cart holds at most
// one line per (sku, size) pair; re-adding overwrites the quantity.
type Line struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line,priority:1" json:"-"`
	SkuID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line,priority:2" json:"skuId"`
	Size      string    `gorm:"size:30;not null;uniqueIndex:idx_cart_line,priority:3" json:"size"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "cart_lines"
}

// Cart is an anonymous, token-addressed holding area for prospective
// purchases. Lines are advisory: quantities are not validated against
// stock on add, only filtered and clamped on read. Carts are scoped to a
// single shopper, so no locking discipline guards concurrent line writes.
type Cart struct {
	shared.BaseEntity
	Token string `gorm:"size:64;not null;uniqueIndex"`
	Lines []Line `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// New creates an empty cart keyed by a fresh capability token
func New() *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		Token:      shared.NewToken(),
	}
}

// SetLine adds a line or overwrites the quantity of an existing
// (sku, size) line. Quantity must be >= 1.
func (c *Cart) SetLine(skuID uuid.UUID, size string, quantity int) error {
	if quantity < 1 {
		return shared.ErrInvalidValue
	}
	now := time.Now()
	for i := range c.Lines {
		if c.Lines[i].SkuID == skuID && c.Lines[i].Size == size {
			c.Lines[i].Quantity = quantity
			c.Lines[i].UpdatedAt = now
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{
		ID:        uuid.New(),
		CartID:    c.ID,
		SkuID:     skuID,
		Size:      size,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

// RemoveLine deletes the (sku, size) line, reporting ErrCartItemNotExists
// when no such line is present
func (c *Cart) RemoveLine(skuID uuid.UUID, size string) error {
	for i := range c.Lines {
		if c.Lines[i].SkuID == skuID && c.Lines[i].Size == size {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return shared.ErrCartItemNotExists
}

// MergeFrom folds another cart's lines into this one. On a (sku, size)
// collision the source quantity wins, matching the overwrite rule of
// SetLine. Returns the lines that were added or changed.
func (c *Cart) MergeFrom(source *Cart) []Line {
	changed := make([]Line, 0, len(source.Lines))
	for _, line := range source.Lines {
		existing := c.Line(line.SkuID, line.Size)
		if existing != nil && existing.Quantity == line.Quantity {
			continue
		}
		_ = c.SetLine(line.SkuID, line.Size, line.Quantity)
		changed = append(changed, *c.Line(line.SkuID, line.Size))
	}
	return changed
}

// Line returns the line for (sku, size), or nil
func (c *Cart) Line(skuID uuid.UUID, size string) *Line {
	for i := range c.Lines {
		if c.Lines[i].SkuID == skuID && c.Lines[i].Size == size {
			return &c.Lines[i]
		}
	}
	return nil
}
