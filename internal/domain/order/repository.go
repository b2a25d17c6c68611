package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/shared"
)

// CartItemView is a read-model row joining a cart line with its product
type CartItemView struct {
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Amount      int             `json:"amount"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// Repository defines the persistence port for orders
type Repository interface {
	// FindByID retrieves an order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindCartByUser retrieves the user's open cart, or shared.ErrCartNotFound
	FindCartByUser(ctx context.Context, userID uuid.UUID) (*Order, error)

	// GetOrCreateCart returns the user's open cart, creating it if absent.
	// Concurrent creation for the same user must yield a single cart.
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*Order, error)

	// FindByGatewayCode retrieves an order by its payment reconciliation code
	FindByGatewayCode(ctx context.Context, code string) (*Order, error)

	// FindByExternalID retrieves an imported order by its sales channel
	// and channel-local order ID, or shared.ErrOrderNotFound
	FindByExternalID(ctx context.Context, source, externalID string) (*Order, error)

	// FindAll lists non-cart orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)

	// Count counts non-cart orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists the order and its full line set
	Save(ctx context.Context, o *Order) error

	// GetCartItems returns the product-joined view of the user's cart
	GetCartItems(ctx context.Context, userID uuid.UUID) ([]CartItemView, error)
}
