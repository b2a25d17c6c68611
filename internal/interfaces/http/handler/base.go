package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/interfaces/http/dto"
	"github.com/glowshop/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequester resolves the caller's identity from the request context
func getRequester(c *gin.Context) (apporder.Requester, error) {
	raw := middleware.GetUserID(c)
	if raw == "" {
		return apporder.Requester{}, errors.New("user ID not found in context")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return apporder.Requester{}, err
	}
	return apporder.Requester{UserID: userID, Admin: middleware.IsAdmin(c)}, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// HandleError maps domain errors to HTTP responses. Stock failures
// carry the offending product list in the error details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var stockErr *shared.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(dto.GetHTTPStatus(shared.ErrInsufficientStock.Code),
			dto.NewErrorResponseWithDetails(shared.ErrInsufficientStock.Code,
				shared.ErrInsufficientStock.Message, gin.H{"products": stockErr.Products}))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
}
