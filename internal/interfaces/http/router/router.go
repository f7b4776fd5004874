// Package router wires the HTTP surface: middleware chain and route
// registration.
package router

import (
	"github.com/VindFlainger/maplapi/internal/infrastructure/auth"
	"github.com/VindFlainger/maplapi/internal/infrastructure/config"
	"github.com/VindFlainger/maplapi/internal/infrastructure/logger"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/handler"
	"github.com/VindFlainger/maplapi/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	System   *handler.SystemHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Shipping *handler.ShippingHandler
}

// New builds the gin engine with the full middleware chain and all routes
// registered
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	catalog := api.Group("/catalog")
	{
		catalog.POST("/getProducts", h.Catalog.GetProducts)
		catalog.GET("/getProductInfo", h.Catalog.GetProductInfo)
		catalog.GET("/getFilters", h.Catalog.GetFilters)
		catalog.GET("/getAvailability", h.Catalog.GetAvailability)
	}

	// cart routes authenticate by cart token alone; order routes accept
	// both guests (order secret) and logged-in customers
	commerce := api.Group("/commerce", middleware.OptionalAuth(jwtService))
	{
		commerce.POST("/initCart", h.Cart.InitCart)
		commerce.POST("/addCartItem", h.Cart.AddCartItem)
		commerce.POST("/delCartItem", h.Cart.DelCartItem)
		commerce.GET("/getCartItems", h.Cart.GetCartItems)
		commerce.POST("/mergeCarts", h.Cart.MergeCarts)

		commerce.POST("/confirmOrder", h.Order.ConfirmOrder)
		commerce.GET("/getOrder", h.Order.GetOrder)
		commerce.POST("/cancelOrder", h.Order.CancelOrder)
	}

	orders := api.Group("/commerce", middleware.Auth(jwtService))
	{
		orders.GET("/getOrders", h.Order.GetOrders)
	}

	shipping := api.Group("/shipping")
	{
		shipping.GET("/getLocations", h.Shipping.GetLocations)
		shipping.GET("/getShippingPrice", h.Shipping.GetShippingPrice)
	}

	admin := api.Group("/admin", middleware.Auth(jwtService), middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.POST("/catalog/importProduct", h.Catalog.ImportProduct)
		admin.DELETE("/catalog/products/:id", h.Catalog.DeleteProduct)
		admin.POST("/orders/changeStatus", h.Order.ChangeOrderStatus)
		admin.POST("/orders/advanceShipping", h.Order.AdvanceShipping)
	}

	return engine
}
