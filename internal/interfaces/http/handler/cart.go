package handler

import (
	cartapp "github.com/VindFlainger/maplapi/internal/application/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles the anonymous cart endpoints. The cart token is the
// only credential; no auth middleware guards these routes.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
	assets      *AssetResolver
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service, assets *AssetResolver) *CartHandler {
	return &CartHandler{cartService: cartService, assets: assets}
}

// InitCart issues an empty cart and returns its token
func (h *CartHandler) InitCart(c *gin.Context) {
	token, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"cartId": token})
}

// AddCartItemRequest sets the quantity of one (sku, size) line
type AddCartItemRequest struct {
	CartID   string    `json:"cartId" binding:"required"`
	SkuID    uuid.UUID `json:"skuId" binding:"required"`
	Size     string    `json:"size" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// AddCartItem puts an item into the cart, overwriting the quantity of an
// existing line
func (h *CartHandler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	err := h.cartService.AddItem(c.Request.Context(), req.CartID, req.SkuID, req.Size, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"added": true})
}

// DelCartItemRequest identifies one line to remove
type DelCartItemRequest struct {
	CartID string    `json:"cartId" binding:"required"`
	SkuID  uuid.UUID `json:"skuId" binding:"required"`
	Size   string    `json:"size" binding:"required"`
}

// DelCartItem removes one line from the cart
func (h *CartHandler) DelCartItem(c *gin.Context) {
	var req DelCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	err := h.cartService.RemoveItem(c.Request.Context(), req.CartID, req.SkuID, req.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"removed": true})
}

// GetCartItems returns the cart joined with live catalog data, healed
// against the current stock
func (h *CartHandler) GetCartItems(c *gin.Context) {
	token := c.Query("cartId")
	if token == "" {
		h.BadRequest(c, nil)
		return
	}

	items, err := h.cartService.GetItems(c.Request.Context(), token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"items": h.resolveItems(items)})
}

// MergeCartsRequest folds the source cart into the target cart
type MergeCartsRequest struct {
	TargetCartID string `json:"targetCartId" binding:"required"`
	SourceCartID string `json:"sourceCartId" binding:"required"`
}

// MergeCarts merges a device-local cart into the surviving one, typically
// after login. The source quantity wins on collisions.
func (h *CartHandler) MergeCarts(c *gin.Context) {
	var req MergeCartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	items, err := h.cartService.Merge(c.Request.Context(), req.TargetCartID, req.SourceCartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"items": h.resolveItems(items)})
}

func (h *CartHandler) resolveItems(items []cartapp.Item) []cartapp.Item {
	for i := range items {
		items[i].Images = h.assets.ResolveImageSets(items[i].Images)
	}
	return items
}
