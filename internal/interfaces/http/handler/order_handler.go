package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/interfaces/http/dto"
)

// SetCartItemsRequest replaces the full item set of the caller's cart
type SetCartItemsRequest struct {
	Items []apporder.CartItemInput `json:"items" binding:"required,dive"`
}

// ApplyDiscountRequest previews a discount code against the cart total
type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// OrderHandler handles cart and order lifecycle requests
type OrderHandler struct {
	BaseHandler
	carts    *apporder.CartService
	checkout *apporder.CheckoutService
	logger   *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(carts *apporder.CartService, checkout *apporder.CheckoutService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		carts:    carts,
		checkout: checkout,
		logger:   logger,
	}
}

// GetCart returns the caller's open cart, creating one if missing
func (h *OrderHandler) GetCart(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), requester.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// SetCartItems replaces the caller's cart contents
func (h *OrderHandler) SetCartItems(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req SetCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.carts.SetCartItems(c.Request.Context(), requester.UserID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ApplyDiscount previews a discount code against the caller's cart
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.carts.ApplyDiscount(c.Request.Context(), requester.UserID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Checkout closes the caller's cart into a placed order
func (h *OrderHandler) Checkout(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req apporder.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	placed, err := h.checkout.Checkout(c.Request.Context(), requester.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, placed)
}

// ListOrders returns placed orders, scoped to the caller unless admin
func (h *OrderHandler) ListOrders(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := buildOrderFilter(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkout.ListOrders(c.Request.Context(), filter, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Orders, result.Total, result.Page, result.PageSize)
}

// GetOrder returns a single placed order by ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, _ := uuid.Parse(req.ID)

	result, err := h.checkout.GetOrder(c.Request.Context(), orderID, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ChangeStatus moves an order along its lifecycle
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, _ := uuid.Parse(idReq.ID)

	var req apporder.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	target := order.OrderStatus(req.Status)
	if !target.IsValid() || target == order.OrderStatusInCart {
		h.BadRequest(c, "Invalid target status")
		return
	}

	result, err := h.checkout.ChangeStatus(c.Request.Context(), orderID, target, requester)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// buildOrderFilter converts list query parameters to a repository filter.
// Date bounds use RFC3339 timestamps.
func buildOrderFilter(req dto.ListRequest) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search

	if req.Status != "" {
		status := order.OrderStatus(req.Status)
		if !status.IsValid() {
			return filter, shared.ErrInvalidInput
		}
		filter.Filters["status"] = status.String()
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			return filter, shared.ErrInvalidInput
		}
		filter.Filters["from"] = from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			return filter, shared.ErrInvalidInput
		}
		filter.Filters["to"] = to
	}
	return filter, nil
}
