package router

import (
	"github.com/gin-gonic/gin"

	"github.com/glowshop/backend/internal/interfaces/http/handler"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under the versioned API group
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// OrderRoutes registers the cart and order lifecycle endpoints.
// Every route requires an authenticated caller.
type OrderRoutes struct {
	Handler *handler.OrderHandler
	Auth    gin.HandlerFunc
}

// RegisterRoutes implements RouteRegistrar
func (r OrderRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(r.Auth)

	orders.GET("/cart", r.Handler.GetCart)
	orders.POST("/cart", r.Handler.SetCartItems)
	orders.PATCH("/cart", r.Handler.SetCartItems)
	orders.POST("/apply-discount", r.Handler.ApplyDiscount)
	orders.POST("/checkout", r.Handler.Checkout)
	orders.GET("", r.Handler.ListOrders)
	orders.GET("/:id", r.Handler.GetOrder)
	orders.PUT("/:id/status", r.Handler.ChangeStatus)
}

// PaymentRoutes registers payment initiation and the gateway return
// endpoint. The return route stays public: the gateway redirects the
// shopper's browser to it without our bearer token.
type PaymentRoutes struct {
	Handler *handler.PaymentHandler
	Auth    gin.HandlerFunc
}

// RegisterRoutes implements RouteRegistrar
func (r PaymentRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	payment := rg.Group("/orders/payment")

	payment.POST("", r.Auth, r.Handler.CreatePaymentURL)
	payment.GET("/return", r.Handler.HandleReturn)
}

// SystemRoutes registers health endpoints
type SystemRoutes struct {
	Handler *handler.SystemHandler
}

// RegisterRoutes implements RouteRegistrar
func (r SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/healthz", r.Handler.Health)
}
