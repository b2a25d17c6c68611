package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/shared"
)

// Product is the sellable item referenced by order lines
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	StockAmount int
	Image       string
	IsActive    bool
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, stockAmount int) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stockAmount < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock amount cannot be negative")
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Price:       price,
		StockAmount: stockAmount,
		IsActive:    true,
	}, nil
}

// EffectivePrice is the price charged for a cart line: the sale price
// when one is set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// HasStock reports whether amount units are currently available
func (p *Product) HasStock(amount int) bool {
	return p.StockAmount >= amount
}

// Repository defines the persistence port for products
type Repository interface {
	// FindByID retrieves a product by ID, or shared.ErrProductNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs retrieves the products for the given IDs; missing IDs
	// are simply absent from the result
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// DecrementStock atomically subtracts amount from the product's
	// stock, failing with shared.ErrInsufficientStock if fewer than
	// amount units remain
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error

	// Restock atomically adds amount back to the product's stock
	Restock(ctx context.Context, id uuid.UUID, amount int) error

	// Save persists the product
	Save(ctx context.Context, p *Product) error
}
