package handler

import (
	shippingapp "github.com/VindFlainger/maplapi/internal/application/shipping"
	"github.com/gin-gonic/gin"
)

// ShippingHandler handles shipping destination endpoints
type ShippingHandler struct {
	BaseHandler
	shippingService *shippingapp.Service
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService *shippingapp.Service) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// GetLocations returns every destination the store ships to, titled in the
// requested language
func (h *ShippingHandler) GetLocations(c *gin.Context) {
	language := c.DefaultQuery("language", "en")

	locations, err := h.shippingService.List(c.Request.Context(), language)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"locations": locations})
}

// GetShippingPrice returns the price for one destination code
func (h *ShippingHandler) GetShippingPrice(c *gin.Context) {
	code := c.Query("location")
	if code == "" {
		h.BadRequest(c, nil)
		return
	}

	price, err := h.shippingService.Price(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"price": price})
}
