package order

import (
	"time"

	"github.com/VindFlainger/maplapi/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderItem is one requested (sku, size, quantity) tuple
type CreateOrderItem struct {
	SkuID    uuid.UUID
	Size     string
	Quantity int
}

// CreateOrderRequest carries everything needed to place an order. OwnerID
// is nil for guest checkout; guests keep access to the order through the
// returned secret.
type CreateOrderRequest struct {
	OwnerID  *uuid.UUID
	Items    []CreateOrderItem
	Location string
	City     string
	Street   string
	House    string
	Postcode string
	Name     string
	Surname  string
	CardRef  string
}

// LineResponse is one purchased line with its price snapshot
type LineResponse struct {
	SkuID    uuid.UUID       `json:"skuId"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Bonuses  decimal.Decimal `json:"bonuses"`
}

// ShippingResponse describes the destination and the shipping price fixed
// at creation time
type ShippingResponse struct {
	Price    decimal.Decimal `json:"price"`
	Location string          `json:"location"`
	City     string          `json:"city"`
	Street   string          `json:"street"`
	House    string          `json:"house"`
	Postcode string          `json:"postcode"`
}

// Response is the public view of an order. Secret is populated only in the
// direct response to creation or a secret-authorized lookup.
type Response struct {
	ID             uuid.UUID        `json:"id"`
	Secret         string           `json:"secret,omitempty"`
	Status         string           `json:"status"`
	ShippingStatus string           `json:"shippingStatus"`
	Lines          []LineResponse   `json:"items"`
	Shipping       ShippingResponse `json:"shipping"`
	Total          decimal.Decimal  `json:"total"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ToResponse converts an order aggregate to its public view. The secret is
// included only when withSecret is set.
func ToResponse(o *order.Order, withSecret bool) Response {
	resp := Response{
		ID:             o.ID,
		Status:         o.Status.String(),
		ShippingStatus: o.ShippingStatus.String(),
		Shipping: ShippingResponse{
			Price:    o.Shipping.Price,
			Location: o.Shipping.Location,
			City:     o.Shipping.City,
			Street:   o.Shipping.Street,
			House:    o.Shipping.House,
			Postcode: o.Shipping.Postcode,
		},
		Total:     o.Total(),
		CreatedAt: o.CreatedAt,
	}
	if withSecret {
		resp.Secret = o.Secret
	}
	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			SkuID:    line.SkuID,
			Size:     line.Size,
			Quantity: line.Quantity,
			Price:    line.Price,
			Bonuses:  line.Bonuses,
		})
	}
	return resp
}
