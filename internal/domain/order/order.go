package order

import (
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the commercial state of an order. All transitions leave
// Active and are one-way; nothing ever transitions back into Active.
type Status string

const (
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusRejected, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusActive {
		return false
	}
	return target == StatusRejected || target == StatusResolved || target == StatusCancelled
}

// ShippingStatus is the fulfilment sub-state, orthogonal to Status and
// strictly monotonic: assembling -> shipping -> collected.
type ShippingStatus string

const (
	ShippingAssembling ShippingStatus = "assembling"
	ShippingShipping   ShippingStatus = "shipping"
	ShippingCollected  ShippingStatus = "collected"
)

// IsValid checks if the status is a valid ShippingStatus
func (s ShippingStatus) IsValid() bool {
	switch s {
	case ShippingAssembling, ShippingShipping, ShippingCollected:
		return true
	}
	return false
}

// String returns the string representation of ShippingStatus
func (s ShippingStatus) String() string {
	return string(s)
}

// Prev returns the only state this status may be advanced from.
// Assembling has no predecessor.
func (s ShippingStatus) Prev() (ShippingStatus, bool) {
	switch s {
	case ShippingShipping:
		return ShippingAssembling, true
	case ShippingCollected:
		return ShippingShipping, true
	}
	return "", false
}

// Line is one purchased item. Price and bonuses are snapshots captured at
// order-creation time and are never recomputed from the catalog; the line
// itself is the reservation reference backing the stock ledger's reserved
// quantity while the order is active.
type Line struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	SkuID    uuid.UUID       `gorm:"type:uuid;not null" json:"skuId"`
	Size     string          `gorm:"size:20;not null" json:"size"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Bonuses  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"bonuses"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// Shipping holds the destination and the price resolved from the chosen
// location at creation time
type Shipping struct {
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Location string          `gorm:"size:30;not null" json:"location"`
	City     string          `gorm:"size:30;not null" json:"city"`
	Street   string          `gorm:"size:30;not null" json:"street"`
	House    string          `gorm:"size:30;not null" json:"house"`
	Postcode string          `gorm:"size:10;not null" json:"postcode"`
}

// Contact is the recipient of the shipment
type Contact struct {
	Name    string `gorm:"size:30;not null" json:"name"`
	Surname string `gorm:"size:30;not null" json:"surname"`
}

// Payment stores opaque references into the external payment collaborator.
// No gateway interaction happens here.
type Payment struct {
	CardRef      string `gorm:"size:64" json:"-"`
	OperationRef string `gorm:"size:64" json:"-"`
}

// Order is an immutable-once-created aggregate of purchased line items.
// It is created only by the atomic creation protocol that also debits the
// stock ledger, and it is never physically deleted: cancellation is a
// status transition that re-credits the ledger.
type Order struct {
	shared.BaseEntity
	OwnerID        *uuid.UUID     `gorm:"type:uuid;index"`
	Secret         string         `gorm:"size:64;not null;uniqueIndex"`
	Status         Status         `gorm:"size:20;not null;default:'active'"`
	ShippingStatus ShippingStatus `gorm:"size:20;not null;default:'assembling'"`
	Lines          []Line         `gorm:"foreignKey:OrderID;references:ID"`
	Shipping       Shipping       `gorm:"embedded;embeddedPrefix:shipping_"`
	Contact        Contact        `gorm:"embedded;embeddedPrefix:contact_"`
	Payment        Payment        `gorm:"embedded;embeddedPrefix:payment_"`
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// New assembles an active order with a fresh guest-lookup secret. The
// secret is the sole authorization mechanism for anonymous orders: treat
// it as a credential, not a display identifier.
func New(owner *uuid.UUID, lines []Line, shipping Shipping, contact Contact, payment Payment) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.ErrFieldRequired
	}
	o := &Order{
		BaseEntity:     shared.NewBaseEntity(),
		OwnerID:        owner,
		Secret:         shared.NewToken(),
		Status:         StatusActive,
		ShippingStatus: ShippingAssembling,
		Shipping:       shipping,
		Contact:        contact,
		Payment:        payment,
	}
	for i := range lines {
		if lines[i].Quantity < 1 {
			return nil, shared.ErrInvalidValue
		}
		lines[i].ID = uuid.New()
		lines[i].OrderID = o.ID
		o.Lines = append(o.Lines, lines[i])
	}
	return o, nil
}

// Total returns the payable amount: line snapshots plus shipping
func (o *Order) Total() decimal.Decimal {
	total := o.Shipping.Price
	for _, line := range o.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Cancel transitions active -> cancelled. The caller must re-credit the
// stock ledger in the same transaction.
func (o *Order) Cancel() error {
	if o.Status != StatusActive {
		return shared.ErrOrderAlreadyCancelled
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	return nil
}

// TransitionTo applies a one-way status transition
func (o *Order) TransitionTo(target Status) error {
	if o.Status == target {
		return shared.ErrOrderAlreadyInStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrOrderAlreadyInStatus
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// AdvanceShipping moves the fulfilment state one step forward
func (o *Order) AdvanceShipping(target ShippingStatus) error {
	prev, ok := target.Prev()
	if !ok || o.ShippingStatus != prev {
		return shared.ErrOrderAlreadyInStatus
	}
	o.ShippingStatus = target
	o.UpdatedAt = time.Now()
	return nil
}
