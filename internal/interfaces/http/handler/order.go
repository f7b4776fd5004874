package handler

import (
	orderapp "github.com/VindFlainger/maplapi/internal/application/order"
	"github.com/VindFlainger/maplapi/internal/domain/order"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/dto"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles checkout and order management endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ConfirmOrderItem is one requested line
type ConfirmOrderItem struct {
	SkuID    uuid.UUID `json:"skuId" binding:"required"`
	Size     string    `json:"size" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// ConfirmOrderRequest carries the checkout payload
type ConfirmOrderRequest struct {
	Items    []ConfirmOrderItem `json:"items" binding:"required,min=1,dive"`
	Location string             `json:"location" binding:"required"`
	City     string             `json:"city" binding:"required"`
	Street   string             `json:"street" binding:"required"`
	House    string             `json:"house" binding:"required"`
	Postcode string             `json:"postcode" binding:"required"`
	Name     string             `json:"name" binding:"required"`
	Surname  string             `json:"surname" binding:"required"`
	CardRef  string             `json:"cardRef"`
}

// ConfirmOrder places an order. Works for guests and authenticated
// customers alike; an authenticated request binds the order to the
// customer, a guest keeps access through the returned secret.
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	var req ConfirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	appReq := orderapp.CreateOrderRequest{
		Location: req.Location,
		City:     req.City,
		Street:   req.Street,
		House:    req.House,
		Postcode: req.Postcode,
		Name:     req.Name,
		Surname:  req.Surname,
		CardRef:  req.CardRef,
	}
	if ownerID, ok := middleware.GetCustomerID(c); ok {
		appReq.OwnerID = &ownerID
	}
	for _, item := range req.Items {
		appReq.Items = append(appReq.Items, orderapp.CreateOrderItem{
			SkuID:    item.SkuID,
			Size:     item.Size,
			Quantity: item.Quantity,
		})
	}

	resp, err := h.orderService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetOrder resolves one order, either by its secret (guest capability) or
// by id for the authenticated owner
func (h *OrderHandler) GetOrder(c *gin.Context) {
	if secret := c.Query("secret"); secret != "" {
		resp, err := h.orderService.GetBySecret(c.Request.Context(), secret)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	ownerID, ok := middleware.GetCustomerID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	orderID, err := uuid.Parse(c.Query("orderId"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	resp, err := h.orderService.GetOwned(c.Request.Context(), ownerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetOrders returns a page of the authenticated customer's orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	ownerID, ok := middleware.GetCustomerID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.orderService.ListByOwner(c.Request.Context(), ownerID,
		shared.Page{Offset: page.Offset, Limit: page.Limit})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.TotalCount, result.Offset, result.Limit, result.NextOffset)
}

// CancelOrderRequest identifies the order to cancel: by secret for guests,
// by id for the authenticated owner
type CancelOrderRequest struct {
	Secret  string     `json:"secret"`
	OrderID *uuid.UUID `json:"orderId"`
}

// CancelOrder cancels an active order and re-credits its reserved stock
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if req.Secret != "" {
		if err := h.orderService.CancelBySecret(c.Request.Context(), req.Secret); err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, gin.H{"cancelled": true})
		return
	}

	if req.OrderID == nil {
		h.HandleError(c, shared.ErrFieldRequired)
		return
	}
	ownerID, ok := middleware.GetCustomerID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	if err := h.orderService.CancelOwned(c.Request.Context(), ownerID, *req.OrderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"cancelled": true})
}

// ChangeOrderStatusRequest applies a fulfilment-side terminal transition
type ChangeOrderStatusRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
	Status  string    `json:"status" binding:"required"`
}

// ChangeOrderStatus rejects or resolves an active order. Rejection
// releases the reserved stock, resolution consumes it.
func (h *OrderHandler) ChangeOrderStatus(c *gin.Context) {
	var req ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	err := h.orderService.ChangeStatus(c.Request.Context(), req.OrderID, order.Status(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"status": req.Status})
}

// AdvanceShippingRequest moves the fulfilment sub-state one step forward
type AdvanceShippingRequest struct {
	OrderID        uuid.UUID `json:"orderId" binding:"required"`
	ShippingStatus string    `json:"shippingStatus" binding:"required"`
}

// AdvanceShipping advances assembling -> shipping -> collected
func (h *OrderHandler) AdvanceShipping(c *gin.Context) {
	var req AdvanceShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	err := h.orderService.AdvanceShipping(c.Request.Context(), req.OrderID, order.ShippingStatus(req.ShippingStatus))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"shippingStatus": req.ShippingStatus})
}
