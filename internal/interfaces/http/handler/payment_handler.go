package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apppayment "github.com/glowshop/backend/internal/application/payment"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles online payment initiation and gateway callbacks
type PaymentHandler struct {
	BaseHandler
	payments *apppayment.Service
	logger   *zap.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *apppayment.Service, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

// CreatePaymentURL closes the caller's cart and returns a signed gateway URL
func (h *PaymentHandler) CreatePaymentURL(c *gin.Context) {
	requester, err := getRequester(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req apppayment.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ClientIP = c.ClientIP()

	result, err := h.payments.BuildPaymentURL(c.Request.Context(), requester.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// HandleReturn verifies the gateway redirect and settles the order.
// The gateway calls this endpoint unauthenticated; the signature in
// the query string is the only trust anchor.
func (h *PaymentHandler) HandleReturn(c *gin.Context) {
	result, err := h.payments.HandleReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.logger.Warn("payment return rejected", zap.Error(err))
		if errors.Is(err, shared.ErrSignatureMismatch) {
			c.JSON(http.StatusOK,
				dto.NewErrorResponse(dto.PaymentResultFailed, "Signature verification failed"))
			return
		}
		h.HandleError(c, err)
		return
	}

	code := dto.PaymentResultFailed
	if result.Succeeded {
		code = dto.PaymentResultSuccess
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"order_id":     result.OrderID,
		"gateway_code": result.GatewayCode,
		"code":         code,
	}))
}
