package payment

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/order"
)

// Reconciliation codes follow the gateway's short day-hour-minute-second
// format so the transaction reference stays human-readable.
const reconciliationLayout = "02150405"

// PaymentRequest initiates an online payment for the user's cart
type PaymentRequest struct {
	apporder.CheckoutRequest
	BankCode string `json:"bank_code"`
	Locale   string `json:"locale"`
	ClientIP string `json:"-"`
}

// PaymentURLResponse carries the signed redirect URL for the caller's browser
type PaymentURLResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	GatewayCode string    `json:"gateway_code"`
	PaymentURL  string    `json:"payment_url"`
}

// ReturnResponse reports the outcome of a verified gateway callback
type ReturnResponse struct {
	OrderID      uuid.UUID `json:"order_id"`
	GatewayCode  string    `json:"gateway_code"`
	ResponseCode string    `json:"response_code"`
	Succeeded    bool      `json:"succeeded"`
}

// Service orchestrates online payment initiation and callback handling
type Service struct {
	orders   order.Repository
	txScope  apporder.TransactionScope
	gateway  Gateway
	notifier apporder.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new payment service. The gateway's local time
// zone drives reconciliation-code and timestamp generation.
func NewService(orders order.Repository, txScope apporder.TransactionScope, gateway Gateway, notifier apporder.Notifier, location *time.Location, logger *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		txScope:  txScope,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(location) },
	}
}

// BuildPaymentURL closes the user's cart for online payment and
// returns the signed gateway redirect URL. Stock is decremented
// immediately for every line as an optimistic reservation; the cart,
// its lines, the products, and the discount all commit together.
func (s *Service) BuildPaymentURL(ctx context.Context, userID uuid.UUID, req PaymentRequest) (*PaymentURLResponse, error) {
	var resp *PaymentURLResponse
	var placed *order.Order

	err := s.txScope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		cart, err := apporder.PrepareOrder(ctx, repos, userID, req.CheckoutRequest, true)
		if err != nil {
			return err
		}
		if err := cart.Place(order.OrderStatusWaitingPayment, order.ContactInfo{
			PaymentType: order.PaymentTypeOnline,
			Receiver:    req.Receiver,
			Phone:       req.Phone,
			Address:     req.Address,
			Note:        req.Note,
		}); err != nil {
			return err
		}

		createdAt := s.now()
		code := createdAt.Format(reconciliationLayout)
		cart.SetGatewayCode(code)
		if err := repos.Orders.Save(ctx, cart); err != nil {
			return err
		}

		paymentURL, err := s.gateway.BuildPaymentURL(PaymentURLRequest{
			TxnRef:    code,
			Amount:    cart.TotalPrice,
			OrderInfo: fmt.Sprintf("Thanh toan cho ma GD:%s", code),
			ClientIP:  req.ClientIP,
			BankCode:  req.BankCode,
			Locale:    req.Locale,
			CreatedAt: createdAt,
		})
		if err != nil {
			return err
		}

		placed = cart
		resp = &PaymentURLResponse{
			OrderID:     cart.ID,
			GatewayCode: code,
			PaymentURL:  paymentURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment url built",
		zap.String("order_id", placed.ID.String()),
		zap.String("gateway_code", placed.GatewayCode))
	go s.notifier.OrderPlaced(placed)

	return resp, nil
}

// HandleReturn verifies the gateway callback signature, looks up the
// order by its reconciliation code, and moves it to waiting_confirm.
// No stock is touched here; reservation happened at URL-build time.
func (s *Service) HandleReturn(ctx context.Context, params url.Values) (*ReturnResponse, error) {
	result, err := s.gateway.VerifyCallback(params)
	if err != nil {
		s.logger.Warn("payment callback rejected", zap.Error(err))
		return nil, err
	}

	var resp *ReturnResponse
	err = s.txScope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
		o, err := repos.Orders.FindByGatewayCode(ctx, result.TxnRef)
		if err != nil {
			return err
		}
		if _, err := o.TransitionTo(order.OrderStatusWaitingConfirm); err != nil {
			return err
		}
		if err := repos.Orders.Save(ctx, o); err != nil {
			return err
		}
		resp = &ReturnResponse{
			OrderID:      o.ID,
			GatewayCode:  result.TxnRef,
			ResponseCode: result.ResponseCode,
			Succeeded:    result.ResponseCode == "00",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment callback handled",
		zap.String("gateway_code", resp.GatewayCode),
		zap.String("response_code", resp.ResponseCode),
		zap.Bool("succeeded", resp.Succeeded))
	return resp, nil
}
