package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/shared"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusInCart         OrderStatus = "in_cart"
	OrderStatusWaitingConfirm OrderStatus = "waiting_confirm"
	OrderStatusWaitingPayment OrderStatus = "waiting_payment"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusShipping       OrderStatus = "shipping"
	OrderStatusReceived       OrderStatus = "received"
	OrderStatusSuccess        OrderStatus = "success"
	OrderStatusReject         OrderStatus = "reject"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusInCart, OrderStatusWaitingConfirm, OrderStatusWaitingPayment,
		OrderStatusConfirmed, OrderStatusShipping, OrderStatusReceived,
		OrderStatusSuccess, OrderStatusReject:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Reject stays reachable from every pre-fulfillment state; success and
// reject are terminal for inventory accounting.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusInCart:
		return target == OrderStatusWaitingConfirm || target == OrderStatusWaitingPayment || target == OrderStatusReject
	case OrderStatusWaitingConfirm:
		return target == OrderStatusConfirmed || target == OrderStatusReject
	case OrderStatusWaitingPayment:
		return target == OrderStatusWaitingConfirm || target == OrderStatusConfirmed || target == OrderStatusReject
	case OrderStatusConfirmed:
		return target == OrderStatusShipping || target == OrderStatusReject
	case OrderStatusShipping:
		return target == OrderStatusReceived || target == OrderStatusReject
	case OrderStatusReceived:
		return target == OrderStatusSuccess
	case OrderStatusSuccess, OrderStatusReject:
		return false
	}
	return false
}

// Payment types accepted at checkout
const (
	PaymentTypeOnline  = "online"
	PaymentTypeOffline = "offline"
)

// Order source tags; externally synced orders carry their platform code.
const (
	SourceLocal    = "local"
	SourceShopify  = "shopify"
	SourceShopbase = "shopbase"
)

// OrderLine represents a single product position in an order.
// It is keyed by (OrderID, ProductID); the unit price is only
// authoritative once the order has left the cart.
type OrderLine struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Amount    int
	UnitPrice decimal.Decimal
	Size      string
	Rated     bool
}

// NewOrderLine creates a new order line
func NewOrderLine(orderID, productID uuid.UUID, amount int, size string) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if amount <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Amount must be positive")
	}
	return &OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		Amount:    amount,
		Size:      size,
	}, nil
}

// ContactInfo carries the delivery details captured at checkout.
type ContactInfo struct {
	PaymentType string
	Receiver    string
	Phone       string
	Address     string
	Note        string
}

// Order is the aggregate root for the cart/checkout lifecycle.
// A user's cart is simply an Order in the in_cart status; at most one
// such order may exist per user.
type Order struct {
	shared.BaseEntity
	UserID            uuid.UUID
	Status            OrderStatus
	Lines             []OrderLine
	TotalPrice        decimal.Decimal
	TotalAmount       int
	DiscountID        *uuid.UUID
	PaymentType       string
	Receiver          string
	Phone             string
	Address           string
	Note              string
	GatewayCode       string
	Source            string
	ExternalOrderID   *string
	FinancialStatus   string
	FulfillmentStatus string
	IsActive          bool
}

// NewCartOrder creates an empty open cart for the given user
func NewCartOrder(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Status:     OrderStatusInCart,
		Lines:      make([]OrderLine, 0),
		TotalPrice: decimal.Zero,
		Source:     SourceLocal,
		IsActive:   true,
	}, nil
}

// NewExternalOrder creates an order imported from an external sales
// channel. Imported orders enter the lifecycle already placed; they
// carry no local user and are never carts.
func NewExternalOrder(source, externalID string, status OrderStatus, info ContactInfo) (*Order, error) {
	if source != SourceShopify && source != SourceShopbase {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order source %q", source))
	}
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "External order ID cannot be empty")
	}
	if !status.IsValid() || status == OrderStatusInCart {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot import order in %s status", status))
	}
	return &Order{
		BaseEntity:      shared.NewBaseEntity(),
		Status:          status,
		Lines:           make([]OrderLine, 0),
		TotalPrice:      decimal.Zero,
		PaymentType:     info.PaymentType,
		Receiver:        info.Receiver,
		Phone:           info.Phone,
		Address:         info.Address,
		Note:            info.Note,
		Source:          source,
		ExternalOrderID: &externalID,
		IsActive:        true,
	}, nil
}

// ReplaceLines replaces the full line set of an open cart
func (o *Order) ReplaceLines(lines []OrderLine) error {
	if o.Status != OrderStatusInCart {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit items of a non-cart order")
	}
	total := 0
	for i := range lines {
		lines[i].OrderID = o.ID
		total += lines[i].Amount
	}
	o.Lines = lines
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	return nil
}

// SetTotals records the recomputed cart totals on the order
func (o *Order) SetTotals(totalPrice decimal.Decimal, totalAmount int) {
	o.TotalPrice = totalPrice
	o.TotalAmount = totalAmount
	o.UpdatedAt = time.Now()
}

// AttachDiscount links the order to a discount
func (o *Order) AttachDiscount(discountID uuid.UUID) {
	o.DiscountID = &discountID
	o.UpdatedAt = time.Now()
}

// SnapshotUnitPrices freezes each line's unit price from the current
// product price. Called at checkout; prices are live until then.
func (o *Order) SnapshotUnitPrices(prices map[uuid.UUID]decimal.Decimal) {
	for i := range o.Lines {
		if price, ok := prices[o.Lines[i].ProductID]; ok {
			o.Lines[i].UnitPrice = price
		}
	}
	o.UpdatedAt = time.Now()
}

// Place moves the cart into its post-checkout status and records the
// delivery details. The target must be waiting_confirm (offline
// checkout) or waiting_payment (online payment initiation).
func (o *Order) Place(target OrderStatus, info ContactInfo) error {
	if target != OrderStatusWaitingConfirm && target != OrderStatusWaitingPayment {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot place order into %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot place order in %s status", o.Status))
	}
	o.Status = target
	o.PaymentType = info.PaymentType
	o.Receiver = info.Receiver
	o.Phone = info.Phone
	o.Address = info.Address
	o.Note = info.Note
	o.UpdatedAt = time.Now()
	return nil
}

// MirrorStatus overwrites the lifecycle status of an imported order.
// The channel is the system of record for these orders, so mirroring
// skips the local transition table.
func (o *Order) MirrorStatus(target OrderStatus) error {
	if o.Source == SourceLocal {
		return shared.NewDomainError("INVALID_STATE", "Cannot mirror status onto a local order")
	}
	if !target.IsValid() || target == OrderStatusInCart {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Cannot mirror order into %s", target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// SetExternalStatuses records the sales channel's own payment and
// fulfillment state alongside the local lifecycle status.
func (o *Order) SetExternalStatuses(financial, fulfillment string) {
	o.FinancialStatus = financial
	o.FulfillmentStatus = fulfillment
	o.UpdatedAt = time.Now()
}

// SetGatewayCode records the reconciliation code correlating this order
// with its payment-gateway redirect.
func (o *Order) SetGatewayCode(code string) {
	o.GatewayCode = code
	o.UpdatedAt = time.Now()
}

// TransitionTo moves the order to the target status. A transition to
// the current status is a no-op (changed=false), which keeps the
// stock-affecting success/reject transitions idempotent.
func (o *Order) TransitionTo(target OrderStatus) (bool, error) {
	if !target.IsValid() {
		return false, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if o.Status == target {
		return false, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return false, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return true, nil
}

// IsInCart returns true if the order is still an open cart
func (o *Order) IsInCart() bool {
	return o.Status == OrderStatusInCart
}

// IsTerminal returns true for states terminal to inventory accounting
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusSuccess || o.Status == OrderStatusReject
}

// LineByProduct returns the line for a product, or nil
func (o *Order) LineByProduct(productID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}
