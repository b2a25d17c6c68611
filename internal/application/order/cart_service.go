package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// CartService manages the user's open cart and discount previews
type CartService struct {
	orders  order.Repository
	txScope TransactionScope
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(orders order.Repository, txScope TransactionScope, logger *zap.Logger) *CartService {
	return &CartService{
		orders:  orders,
		txScope: txScope,
		logger:  logger,
	}
}

// GetCart returns the user's open cart, creating an empty one if needed
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.orders.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildCartView(ctx, cart)
}

// SetCartItems replaces the cart's full item set, creating the cart on
// first use. Every referenced product must exist.
func (s *CartService) SetCartItems(ctx context.Context, userID uuid.UUID, items []CartItemInput) (*CartResponse, error) {
	var cart *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := repos.Products.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(uniqueIDs(ids)) {
			return shared.ErrProductNotFound
		}

		cart, err = repos.Orders.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}

		lines := make([]order.OrderLine, 0, len(items))
		for _, item := range items {
			line, err := order.NewOrderLine(cart.ID, item.ProductID, item.Amount, item.Size)
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}
		if err := cart.ReplaceLines(lines); err != nil {
			return err
		}
		return repos.Orders.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart items replaced",
		zap.String("user_id", userID.String()),
		zap.Int("items", len(items)))
	return s.buildCartView(ctx, cart)
}

// ApplyDiscount previews the discounted cart total and stages the
// discount on the cart. The usage counter is untouched until checkout.
func (s *CartService) ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (*ApplyDiscountResponse, error) {
	var resp *ApplyDiscountResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		cart, err := repos.Orders.FindCartByUser(ctx, userID)
		if err != nil {
			return err
		}
		items, err := repos.Orders.GetCartItems(ctx, userID)
		if err != nil {
			return err
		}
		total := cartTotal(items)

		discount, err := repos.Discounts.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if !discount.Usable() {
			return shared.ErrDiscountExpired
		}

		cart.AttachDiscount(discount.ID)
		if err := repos.Orders.Save(ctx, cart); err != nil {
			return err
		}

		resp = &ApplyDiscountResponse{
			Code:          discount.Code,
			TotalPrice:    total,
			AdjustedPrice: discount.Adjust(total),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *CartService) buildCartView(ctx context.Context, cart *order.Order) (*CartResponse, error) {
	items, err := s.orders.GetCartItems(ctx, cart.UserID)
	if err != nil {
		return nil, err
	}
	amount := 0
	for _, item := range items {
		amount += item.Amount
	}
	return &CartResponse{
		OrderID:     cart.ID,
		Items:       items,
		TotalPrice:  cartTotal(items),
		TotalAmount: amount,
	}, nil
}

// cartTotal sums amount x effective price over the live cart view
func cartTotal(items []order.CartItemView) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Amount))))
	}
	return total
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
