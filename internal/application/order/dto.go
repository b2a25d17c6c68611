package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/order"
)

// CartItemInput is one product position submitted for the cart
type CartItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Amount    int       `json:"amount" binding:"required,gt=0"`
	Size      string    `json:"size"`
}

// CartResponse is the read projection of the user's open cart
type CartResponse struct {
	OrderID     uuid.UUID            `json:"order_id"`
	Items       []order.CartItemView `json:"items"`
	TotalPrice  decimal.Decimal      `json:"total_price"`
	TotalAmount int                  `json:"total_amount"`
}

// ApplyDiscountResponse is the preview of a discounted cart total
type ApplyDiscountResponse struct {
	Code          string          `json:"code"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	AdjustedPrice decimal.Decimal `json:"adjusted_price"`
}

// CheckoutRequest carries the delivery and payment details closing a cart
type CheckoutRequest struct {
	PaymentType  string `json:"payment_type" binding:"required,oneof=online offline"`
	Receiver     string `json:"receiver" binding:"required"`
	Phone        string `json:"phone" binding:"required,phone_vn"`
	Address      string `json:"address" binding:"required"`
	Note         string `json:"note"`
	DiscountCode string `json:"discount_code"`
}

// ChangeStatusRequest moves an order to a new lifecycle status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderLineResponse is one line of a placed order
type OrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Amount    int             `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Size      string          `json:"size"`
	Rated     bool            `json:"rated"`
}

// OrderResponse is the API projection of a placed order
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      string              `json:"status"`
	TotalPrice  decimal.Decimal     `json:"total_price"`
	TotalAmount int                 `json:"total_amount"`
	DiscountID  *uuid.UUID          `json:"discount_id,omitempty"`
	PaymentType string              `json:"payment_type"`
	Receiver    string              `json:"receiver"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Note        string              `json:"note"`
	Source      string              `json:"source"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ListOrdersResult is a paginated order listing
type ListOrdersResult struct {
	Orders   []*OrderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ToOrderResponse maps an order aggregate to its API projection
func ToOrderResponse(o *order.Order) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID: l.ProductID,
			Amount:    l.Amount,
			UnitPrice: l.UnitPrice,
			Size:      l.Size,
			Rated:     l.Rated,
		})
	}
	return &OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      o.Status.String(),
		TotalPrice:  o.TotalPrice,
		TotalAmount: o.TotalAmount,
		DiscountID:  o.DiscountID,
		PaymentType: o.PaymentType,
		Receiver:    o.Receiver,
		Phone:       o.Phone,
		Address:     o.Address,
		Note:        o.Note,
		Source:      o.Source,
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
