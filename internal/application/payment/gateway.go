package payment

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentURLRequest carries everything the gateway needs to build a
// signed redirect URL
type PaymentURLRequest struct {
	TxnRef    string
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
	BankCode  string
	Locale    string
	CreatedAt time.Time
}

// CallbackResult is the verified content of a gateway return callback
type CallbackResult struct {
	TxnRef       string
	ResponseCode string
	BankCode     string
	Amount       decimal.Decimal
}

// Gateway abstracts the external payment provider: an outbound signed
// redirect URL and verification of the provider's signed callback.
type Gateway interface {
	// BuildPaymentURL assembles, signs, and returns the redirect URL
	BuildPaymentURL(req PaymentURLRequest) (string, error)

	// VerifyCallback checks the callback signature and parses the
	// parameters, returning shared.ErrSignatureMismatch on a bad
	// signature
	VerifyCallback(params url.Values) (*CallbackResult, error)
}
