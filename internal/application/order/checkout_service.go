package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// Requester identifies the caller of an order operation. Non-admin
// requesters only see their own orders.
type Requester struct {
	UserID uuid.UUID
	Admin  bool
}

// CheckoutService drives the cart through checkout and the placed
// order through its lifecycle
type CheckoutService struct {
	orders   order.Repository
	txScope  TransactionScope
	notifier Notifier
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders order.Repository, txScope TransactionScope, notifier Notifier, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		txScope:  txScope,
		notifier: notifier,
		logger:   logger,
	}
}

// Checkout closes the user's cart for offline payment. Stock stays
// untouched; it is committed when the order later reaches success.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	var placed *order.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		cart, err := PrepareOrder(ctx, repos, userID, req, false)
		if err != nil {
			return err
		}
		if err := cart.Place(order.OrderStatusWaitingConfirm, order.ContactInfo{
			PaymentType: req.PaymentType,
			Receiver:    req.Receiver,
			Phone:       req.Phone,
			Address:     req.Address,
			Note:        req.Note,
		}); err != nil {
			return err
		}
		placed = cart
		return repos.Orders.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total_price", placed.TotalPrice.String()))
	go s.notifier.OrderPlaced(placed)

	return ToOrderResponse(placed), nil
}

// ChangeStatus transitions an order to a new status. Transition to
// success commits stock, transition to reject releases it; repeating a
// transition the order already made is a no-op.
func (s *CheckoutService) ChangeStatus(ctx context.Context, orderID uuid.UUID, target order.OrderStatus, requester Requester) (*OrderResponse, error) {
	var updated *order.Order
	var previous order.OrderStatus
	var changed bool

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !requester.Admin && o.UserID != requester.UserID {
			return shared.ErrOrderNotFound
		}

		previous = o.Status
		changed, err = o.TransitionTo(target)
		if err != nil {
			return err
		}
		if changed {
			switch target {
			case order.OrderStatusSuccess:
				for _, line := range o.Lines {
					if err := repos.Products.DecrementStock(ctx, line.ProductID, line.Amount); err != nil {
						return err
					}
				}
			case order.OrderStatusReject:
				for _, line := range o.Lines {
					if err := repos.Products.Restock(ctx, line.ProductID, line.Amount); err != nil {
						return err
					}
				}
			}
		}
		updated = o
		return repos.Orders.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("order status changed",
			zap.String("order_id", orderID.String()),
			zap.String("from", previous.String()),
			zap.String("to", target.String()))
		go s.notifier.OrderStatusChanged(updated, previous)
	}
	return ToOrderResponse(updated), nil
}

// ListOrders returns placed orders matching the filter; carts are
// never included. Non-admin requesters only see their own orders.
func (s *CheckoutService) ListOrders(ctx context.Context, filter shared.Filter, requester Requester) (*ListOrdersResult, error) {
	if !requester.Admin {
		if filter.Filters == nil {
			filter.Filters = make(map[string]interface{})
		}
		filter.Filters["user_id"] = requester.UserID
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(o))
	}
	return &ListOrdersResult{
		Orders:   responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// GetOrder returns one placed order
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID, requester Requester) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsInCart() {
		return nil, shared.ErrOrderNotFound
	}
	if !requester.Admin && o.UserID != requester.UserID {
		return nil, shared.ErrOrderNotFound
	}
	return ToOrderResponse(o), nil
}
