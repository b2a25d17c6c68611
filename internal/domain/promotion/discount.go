package promotion

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/shared"
)

// Discount is a redeemable code combining a percentage cut and a flat
// amount, limited to Quantity total redemptions.
type Discount struct {
	shared.BaseEntity
	Code           string
	Percent        int
	Price          decimal.Decimal
	Quantity       int
	ActualQuantity int
}

// NewDiscount creates a new discount code
func NewDiscount(code string, percent int, price decimal.Decimal, quantity int) (*Discount, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Discount code cannot be empty")
	}
	if percent < 0 || percent > 100 {
		return nil, shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Discount quantity cannot be negative")
	}
	return &Discount{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Percent:    percent,
		Price:      price,
		Quantity:   quantity,
	}, nil
}

// Usable reports whether the code still has redemptions left
func (d *Discount) Usable() bool {
	return d.Quantity > d.ActualQuantity
}

// Adjust applies the discount to a price: the percentage cut first,
// then the flat amount. The result is not clamped at zero.
func (d *Discount) Adjust(price decimal.Decimal) decimal.Decimal {
	percent := decimal.NewFromInt(int64(100 - d.Percent)).Div(decimal.NewFromInt(100))
	return price.Mul(percent).Sub(d.Price)
}

// Repository defines the persistence port for discounts
type Repository interface {
	// FindByCode retrieves a discount by code, or shared.ErrDiscountNotFound
	FindByCode(ctx context.Context, code string) (*Discount, error)

	// RecordUsage atomically increments the redemption counter,
	// failing with shared.ErrDiscountExpired once the limit is reached
	RecordUsage(ctx context.Context, code string) error

	// Save persists the discount
	Save(ctx context.Context, d *Discount) error
}
