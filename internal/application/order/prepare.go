package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// PrepareOrder runs the shared pre-placement steps for the offline
// checkout and online payment-initiation paths: it loads the user's
// cart, recomputes totals from the live cart view, verifies stock
// sufficiency for every line, snapshots unit prices, and redeems the
// discount code if one was supplied.
//
// When reserveStock is true each line's stock is decremented inside
// the surrounding transaction; the offline path leaves stock untouched
// and commits it only on the later transition to success.
func PrepareOrder(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID, req CheckoutRequest, reserveStock bool) (*order.Order, error) {
	cart, err := repos.Orders.FindCartByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")
	}

	items, err := repos.Orders.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := cartTotal(items)
	amount := 0
	for _, item := range items {
		amount += item.Amount
	}

	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ProductID)
	}
	products, err := repos.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	var insufficient []shared.ProductRef
	for _, line := range cart.Lines {
		idx, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.ErrProductNotFound
		}
		if !products[idx].HasStock(line.Amount) {
			insufficient = append(insufficient, shared.ProductRef{
				ID:   products[idx].ID,
				Name: products[idx].Name,
			})
		}
	}
	if len(insufficient) > 0 {
		return nil, &shared.InsufficientStockError{Products: insufficient}
	}

	// lines are stamped with the list price; the order total already
	// reflects any sale price through the cart view
	prices := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	cart.SnapshotUnitPrices(prices)

	if req.DiscountCode != "" {
		discount, err := repos.Discounts.FindByCode(ctx, req.DiscountCode)
		switch {
		case errors.Is(err, shared.ErrDiscountNotFound):
			// an unresolvable code is ignored and the order places at
			// full price; only an exhausted code blocks checkout
		case err != nil:
			return nil, err
		default:
			if !discount.Usable() {
				return nil, shared.ErrDiscountExpired
			}
			if err := repos.Discounts.RecordUsage(ctx, discount.Code); err != nil {
				return nil, err
			}
			total = discount.Adjust(total)
			cart.AttachDiscount(discount.ID)
		}
	}

	if reserveStock {
		for _, line := range cart.Lines {
			if err := repos.Products.DecrementStock(ctx, line.ProductID, line.Amount); err != nil {
				return nil, err
			}
		}
	}

	cart.SetTotals(total, amount)
	return cart, nil
}
