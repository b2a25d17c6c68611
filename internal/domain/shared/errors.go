package shared

import "github.com/google/uuid"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrCartNotFound      = NewDomainError("CART_NOT_FOUND", "No open cart for this user")
	ErrOrderNotFound     = NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrProductNotFound   = NewDomainError("PRODUCT_NOT_FOUND", "One or more products do not exist")
	ErrDiscountNotFound  = NewDomainError("DISCOUNT_NOT_FOUND", "Discount code not found")
	ErrDiscountExpired   = NewDomainError("DISCOUNT_EXPIRED", "Discount usage limit reached")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrSignatureMismatch = NewDomainError("SIGNATURE_MISMATCH", "Payment callback signature verification failed")
)

// ProductRef identifies a product in an error payload.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// InsufficientStockError carries the list of products whose requested
// amount exceeds the available stock. It wraps ErrInsufficientStock so
// callers can match it with errors.Is.
type InsufficientStockError struct {
	Products []ProductRef `json:"products"`
}

func (e *InsufficientStockError) Error() string {
	return ErrInsufficientStock.Message
}

// Unwrap lets errors.Is(err, ErrInsufficientStock) succeed.
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
