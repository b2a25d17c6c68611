package order

import (
	"github.com/glowshop/backend/internal/domain/order"
)

// Notifier receives order lifecycle events. Implementations are
// invoked fire-and-forget after the surrounding transaction commits;
// failures are logged, never surfaced to the caller.
type Notifier interface {
	OrderPlaced(o *order.Order)
	OrderStatusChanged(o *order.Order, previous order.OrderStatus)
}

// NoOpNotifier discards all events
type NoOpNotifier struct{}

func (NoOpNotifier) OrderPlaced(*order.Order)                           {}
func (NoOpNotifier) OrderStatusChanged(*order.Order, order.OrderStatus) {}
