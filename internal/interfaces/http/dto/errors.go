package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Payment gateway result codes forwarded to callers on the callback
// route, mirroring the provider's own response-code convention
const (
	PaymentResultSuccess = "00"
	PaymentResultFailed  = "97"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	"NOT_FOUND":          http.StatusNotFound,
	"CART_NOT_FOUND":     http.StatusNotFound,
	"ORDER_NOT_FOUND":    http.StatusNotFound,
	"PRODUCT_NOT_FOUND":  http.StatusNotFound,
	"DISCOUNT_NOT_FOUND": http.StatusNotFound,

	"DISCOUNT_EXPIRED":   http.StatusUnprocessableEntity,
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,

	"SIGNATURE_MISMATCH": http.StatusBadRequest,
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_STATUS":     http.StatusBadRequest,
	"INVALID_QUANTITY":   http.StatusBadRequest,
	"INVALID_PRODUCT":    http.StatusBadRequest,
	"INVALID_USER":       http.StatusBadRequest,
	"EMPTY_CART":         http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// defaulting to 500 for codes without a mapping
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
