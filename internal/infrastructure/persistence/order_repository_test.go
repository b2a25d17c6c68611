package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowshop/backend/internal/domain/catalog"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

func seedProduct(t *testing.T, repo *GormProductRepository, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestGormOrderRepository_GetOrCreateCart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	cart, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.True(t, cart.IsInCart())

	// second call returns the same cart, never a second one
	again, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	var count int64
	require.NoError(t, db.Table("orders").Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormOrderRepository_OpenCartUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := order.NewCartOrder(userID)
	require.NoError(t, err)
	second, err := order.NewCartOrder(userID)
	require.NoError(t, err)

	repo := NewGormOrderRepository(db)
	require.NoError(t, repo.Save(ctx, first))
	assert.Error(t, repo.Save(ctx, second), "two open carts for one user must be rejected")
}

func TestGormOrderRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	cart, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)

	productID := uuid.New()
	line, err := order.NewOrderLine(cart.ID, productID, 2, "M")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*line}))
	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, productID, found.Lines[0].ProductID)
	assert.Equal(t, 2, found.Lines[0].Amount)

	// replacing lines removes the old set
	otherID := uuid.New()
	newLine, err := order.NewOrderLine(cart.ID, otherID, 1, "L")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*newLine}))
	require.NoError(t, repo.Save(ctx, cart))

	found, err = repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, otherID, found.Lines[0].ProductID)
}

func TestGormOrderRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrOrderNotFound)
}

func TestGormOrderRepository_FindCartByUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	_, err := repo.FindCartByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrCartNotFound)
}

func TestGormOrderRepository_FindByGatewayCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	cart, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	line, err := order.NewOrderLine(cart.ID, uuid.New(), 1, "M")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*line}))
	require.NoError(t, cart.Place(order.OrderStatusWaitingPayment, order.ContactInfo{PaymentType: order.PaymentTypeOnline}))
	cart.SetGatewayCode("02150405")
	require.NoError(t, repo.Save(ctx, cart))

	found, err := repo.FindByGatewayCode(ctx, "02150405")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)

	_, err = repo.FindByGatewayCode(ctx, "99999999")
	assert.ErrorIs(t, err, shared.ErrOrderNotFound)
}

func TestGormOrderRepository_FindAll_ExcludesCarts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	cart, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	line, err := order.NewOrderLine(cart.ID, uuid.New(), 1, "M")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*line}))
	require.NoError(t, cart.Place(order.OrderStatusWaitingConfirm, order.ContactInfo{PaymentType: order.PaymentTypeOffline}))
	require.NoError(t, repo.Save(ctx, cart))

	// an open cart for another user must not appear
	_, err = repo.GetOrCreateCart(ctx, uuid.New())
	require.NoError(t, err)

	orders, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, cart.ID, orders[0].ID)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormOrderRepository_FindAll_FilterByUserAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	placeOrder := func(userID uuid.UUID) *order.Order {
		cart, err := repo.GetOrCreateCart(ctx, userID)
		require.NoError(t, err)
		line, err := order.NewOrderLine(cart.ID, uuid.New(), 1, "M")
		require.NoError(t, err)
		require.NoError(t, cart.ReplaceLines([]order.OrderLine{*line}))
		require.NoError(t, cart.Place(order.OrderStatusWaitingConfirm, order.ContactInfo{PaymentType: order.PaymentTypeOffline}))
		require.NoError(t, repo.Save(ctx, cart))
		return cart
	}

	alice := uuid.New()
	bob := uuid.New()
	mine := placeOrder(alice)
	placeOrder(bob)

	filter := shared.DefaultFilter()
	filter.Filters = map[string]interface{}{"user_id": alice}
	orders, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	filter.Filters = map[string]interface{}{"status": order.OrderStatusConfirmed.String()}
	orders, err = repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGormOrderRepository_GetCartItems(t *testing.T) {
	db := setupTestDB(t)
	orderRepo := NewGormOrderRepository(db)
	productRepo := NewGormProductRepository(db)
	ctx := context.Background()

	regular := seedProduct(t, productRepo, "Linen Shirt", 250000, 5)
	onSale := seedProduct(t, productRepo, "Summer Dress", 400000, 3)
	sale := decimal.NewFromInt(299000)
	onSale.SalePrice = &sale
	require.NoError(t, productRepo.Save(ctx, onSale))

	userID := uuid.New()
	cart, err := orderRepo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	l1, err := order.NewOrderLine(cart.ID, regular.ID, 2, "M")
	require.NoError(t, err)
	l2, err := order.NewOrderLine(cart.ID, onSale.ID, 1, "S")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*l1, *l2}))
	require.NoError(t, orderRepo.Save(ctx, cart))

	items, err := orderRepo.GetCartItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := make(map[uuid.UUID]order.CartItemView)
	for _, item := range items {
		byProduct[item.ProductID] = item
	}
	assert.True(t, byProduct[regular.ID].Price.Equal(decimal.NewFromInt(250000)))
	assert.True(t, byProduct[onSale.ID].Price.Equal(sale), "sale price wins over list price")
	assert.Equal(t, "Linen Shirt", byProduct[regular.ID].ProductName)
}
