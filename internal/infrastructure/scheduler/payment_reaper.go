package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// PaymentReaper rejects orders stuck in waiting_payment past the
// timeout, releasing the stock that was reserved at payment-URL build
// time. It drives the same ChangeStatus operation the HTTP surface
// uses, so restocking and idempotency rules apply unchanged.
type PaymentReaper struct {
	orders   order.Repository
	checkout *apporder.CheckoutService
	timeout  time.Duration
	logger   *zap.Logger
}

// NewPaymentReaper creates a reaper for abandoned online payments
func NewPaymentReaper(orders order.Repository, checkout *apporder.CheckoutService, timeout time.Duration, logger *zap.Logger) *PaymentReaper {
	return &PaymentReaper{
		orders:   orders,
		checkout: checkout,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run rejects one batch of expired waiting_payment orders
func (r *PaymentReaper) Run(ctx context.Context) error {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Filters = map[string]interface{}{
		"status": order.OrderStatusWaitingPayment.String(),
		"to":     time.Now().Add(-r.timeout),
	}

	expired, err := r.orders.FindAll(ctx, filter)
	if err != nil {
		return err
	}

	for _, o := range expired {
		if _, err := r.checkout.ChangeStatus(ctx, o.ID, order.OrderStatusReject, apporder.Requester{Admin: true}); err != nil {
			r.logger.Error("failed to reject expired payment",
				zap.String("order_id", o.ID.String()), zap.Error(err))
			continue
		}
		r.logger.Info("expired payment rejected",
			zap.String("order_id", o.ID.String()),
			zap.String("gateway_code", o.GatewayCode))
	}
	return nil
}
