package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/application/payment"
	"github.com/glowshop/backend/internal/domain/shared"
)

const (
	vnpayVersion    = "2.1.0"
	vnpayCommand    = "pay"
	vnpayCurrCode   = "VND"
	vnpayOrderType  = "other"
	vnpayLocale     = "vn"
	vnpayTimeLayout = "20060102150405"
)

// VNPayConfig holds merchant credentials for the VNPay gateway
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PaymentURL string
	ReturnURL  string
	Locale     string
}

// Validate checks the configuration
func (c *VNPayConfig) Validate() error {
	if c.TmnCode == "" {
		return fmt.Errorf("vnpay: tmn_code is required")
	}
	if c.HashSecret == "" {
		return fmt.Errorf("vnpay: hash_secret is required")
	}
	if c.PaymentURL == "" {
		return fmt.Errorf("vnpay: payment_url is required")
	}
	if c.ReturnURL == "" {
		return fmt.Errorf("vnpay: return_url is required")
	}
	return nil
}

// VNPayAdapter implements the payment.Gateway interface for VNPay
type VNPayAdapter struct {
	config *VNPayConfig
}

// NewVNPayAdapter creates a new VNPay adapter
func NewVNPayAdapter(config *VNPayConfig) (*VNPayAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &VNPayAdapter{config: config}, nil
}

// BuildPaymentURL assembles the signed redirect URL. The canonical
// query string is both the HMAC-SHA512 input and the query appended to
// the gateway base URL; the signature goes last, outside the sort.
func (a *VNPayAdapter) BuildPaymentURL(req payment.PaymentURLRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("vnpay: transaction reference is required")
	}

	locale := req.Locale
	if locale == "" {
		locale = a.config.Locale
	}
	if locale == "" {
		locale = vnpayLocale
	}

	// vnp_Amount is the order total in minor units
	params := map[string]string{
		"vnp_Version":    vnpayVersion,
		"vnp_Command":    vnpayCommand,
		"vnp_TmnCode":    a.config.TmnCode,
		"vnp_Locale":     locale,
		"vnp_CurrCode":   vnpayCurrCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  vnpayOrderType,
		"vnp_Amount":     req.Amount.Mul(decimal.NewFromInt(100)).String(),
		"vnp_ReturnUrl":  a.config.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": req.CreatedAt.Format(vnpayTimeLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := buildSignString(params)
	signature := a.sign(query)

	return a.config.PaymentURL + "?" + query + "&vnp_SecureHash=" + signature, nil
}

// VerifyCallback strips the signature fields, re-signs the remaining
// parameters with the same canonicalization, and compares. No order or
// stock state is touched here.
func (a *VNPayAdapter) VerifyCallback(values url.Values) (*payment.CallbackResult, error) {
	received := values.Get("vnp_SecureHash")
	if received == "" {
		return nil, shared.ErrSignatureMismatch
	}

	params := make(map[string]string, len(values))
	for key := range values {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		params[key] = values.Get(key)
	}

	expected := a.sign(buildSignString(params))
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, shared.ErrSignatureMismatch
	}

	result := &payment.CallbackResult{
		TxnRef:       values.Get("vnp_TxnRef"),
		ResponseCode: values.Get("vnp_ResponseCode"),
		BankCode:     values.Get("vnp_BankCode"),
	}
	if raw := values.Get("vnp_Amount"); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			result.Amount = amount.Div(decimal.NewFromInt(100))
		}
	}
	return result, nil
}

// sign computes the hex HMAC-SHA512 of the canonical string
func (a *VNPayAdapter) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(a.config.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// buildSignString canonicalizes the parameter map: keys are
// URL-encoded and sorted by their encoded form, values are URL-encoded
// with spaces as '+', and pairs are joined with '&'. The gateway runs
// the identical algorithm, so the output must be byte-exact.
func buildSignString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, encodeParam(key))
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	decoded := make(map[string]string, len(params))
	for key, value := range params {
		decoded[encodeParam(key)] = value
	}
	for _, key := range keys {
		pairs = append(pairs, key+"="+encodeParam(decoded[key]))
	}
	return strings.Join(pairs, "&")
}

// encodeParam percent-encodes a key or value the way the gateway does:
// alphanumerics and -_.!~*'() stay literal, spaces become '+', and
// everything else is %XX. url.QueryEscape would escape !*'() too and
// break byte-compatibility with the gateway's signing input.
func encodeParam(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// Ensure VNPayAdapter implements the gateway interface
var _ payment.Gateway = (*VNPayAdapter)(nil)
