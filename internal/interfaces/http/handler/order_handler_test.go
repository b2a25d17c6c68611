package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	"github.com/glowshop/backend/internal/domain/catalog"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/promotion"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/interfaces/http/handler"
	"github.com/glowshop/backend/internal/interfaces/http/middleware"
	"github.com/glowshop/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindCartByUser(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByGatewayCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByExternalID(ctx context.Context, source, externalID string) (*order.Order, error) {
	args := m.Called(ctx, source, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *mockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) GetCartItems(ctx context.Context, userID uuid.UUID) ([]order.CartItemView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.CartItemView), args.Error(1)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *mockProductRepository) Restock(ctx context.Context, id uuid.UUID, amount int) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *mockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type mockDiscountRepository struct {
	mock.Mock
}

func (m *mockDiscountRepository) FindByCode(ctx context.Context, code string) (*promotion.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Discount), args.Error(1)
}

func (m *mockDiscountRepository) RecordUsage(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *mockDiscountRepository) Save(ctx context.Context, d *promotion.Discount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type testStack struct {
	orders    *mockOrderRepository
	products  *mockProductRepository
	discounts *mockDiscountRepository
	engine    *gin.Engine
}

func newTestStack() *testStack {
	orders := new(mockOrderRepository)
	products := new(mockProductRepository)
	discounts := new(mockDiscountRepository)
	scope := apporder.NewNoOpTransactionScope(apporder.TransactionalRepositories{
		Orders:    orders,
		Products:  products,
		Discounts: discounts,
	})

	logger := zap.NewNop()
	carts := apporder.NewCartService(orders, scope, logger)
	checkout := apporder.NewCheckoutService(orders, scope, apporder.NoOpNotifier{}, logger)

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Register(router.OrderRoutes{
		Handler: handler.NewOrderHandler(carts, checkout, logger),
		Auth:    middleware.Auth("test-secret", true),
	})
	r.Setup()

	return &testStack{orders: orders, products: products, discounts: discounts, engine: engine}
}

func (s *testStack) do(method, path string, body any, userID uuid.UUID, admin bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID.String())
	if admin {
		req.Header.Set("X-User-Role", middleware.RoleAdmin)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func cartWithLine(t *testing.T, userID, productID uuid.UUID, amount int) *order.Order {
	t.Helper()
	cart, err := order.NewCartOrder(userID)
	require.NoError(t, err)
	line, err := order.NewOrderLine(cart.ID, productID, amount, "M")
	require.NoError(t, err)
	require.NoError(t, cart.ReplaceLines([]order.OrderLine{*line}))
	return cart
}

func TestOrderHandler_GetCart(t *testing.T) {
	s := newTestStack()
	userID := uuid.New()
	cart, err := order.NewCartOrder(userID)
	require.NoError(t, err)

	s.orders.On("GetOrCreateCart", mock.Anything, userID).Return(cart, nil)
	s.orders.On("GetCartItems", mock.Anything, userID).Return([]order.CartItemView{}, nil)

	w := s.do("GET", "/api/v1/orders/cart", nil, userID, false)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), cart.ID.String())
}

func TestOrderHandler_GetCart_Unauthenticated(t *testing.T) {
	s := newTestStack()

	req := httptest.NewRequest("GET", "/api/v1/orders/cart", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_SetCartItems_BadBody(t *testing.T) {
	s := newTestStack()

	w := s.do("POST", "/api/v1/orders/cart", gin.H{"items": []gin.H{{"amount": 0}}}, uuid.New(), false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
}

func TestOrderHandler_Checkout_InsufficientStock(t *testing.T) {
	s := newTestStack()
	userID := uuid.New()
	productID := uuid.New()
	cart := cartWithLine(t, userID, productID, 5)

	product, err := catalog.NewProduct("Sneaker", decimal.NewFromInt(100000), 1)
	require.NoError(t, err)
	product.ID = productID

	s.orders.On("FindCartByUser", mock.Anything, userID).Return(cart, nil)
	s.orders.On("GetCartItems", mock.Anything, userID).Return([]order.CartItemView{
		{OrderID: cart.ID, ProductID: productID, Amount: 5, Price: decimal.NewFromInt(100000)},
	}, nil)
	s.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]*catalog.Product{product}, nil)

	w := s.do("POST", "/api/v1/orders/checkout", gin.H{
		"payment_type": "offline",
		"receiver":     "Nguyen Van A",
		"phone":        "0911222333",
		"address":      "1 Tran Hung Dao",
	}, userID, false)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), productID.String())
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	s := newTestStack()
	userID := uuid.New()
	orderID := uuid.New()

	s.orders.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrOrderNotFound)

	w := s.do("GET", "/api/v1/orders/"+orderID.String(), nil, userID, false)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)
}

func TestOrderHandler_ChangeStatus_InvalidTarget(t *testing.T) {
	s := newTestStack()

	w := s.do("PUT", fmt.Sprintf("/api/v1/orders/%s/status", uuid.New()), gin.H{
		"status": "teleported",
	}, uuid.New(), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_ChangeStatus_InvalidTransition(t *testing.T) {
	s := newTestStack()
	orderID := uuid.New()
	userID := uuid.New()

	placed := cartWithLine(t, userID, uuid.New(), 1)
	require.NoError(t, placed.Place(order.OrderStatusWaitingConfirm, order.ContactInfo{
		PaymentType: "offline", Receiver: "A", Phone: "1", Address: "X",
	}))
	placed.ID = orderID

	s.orders.On("FindByID", mock.Anything, orderID).Return(placed, nil)

	w := s.do("PUT", fmt.Sprintf("/api/v1/orders/%s/status", orderID), gin.H{
		"status": "received",
	}, userID, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestOrderHandler_ListOrders_Pagination(t *testing.T) {
	s := newTestStack()
	userID := uuid.New()

	s.orders.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 5 && f.Filters["user_id"] == userID
	})).Return([]*order.Order{}, nil)
	s.orders.On("Count", mock.Anything, mock.Anything).Return(int64(12), nil)

	w := s.do("GET", "/api/v1/orders?page=2&page_size=5", nil, userID, false)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(12), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 5, env.Meta.PageSize)
}

func TestOrderHandler_ListOrders_BadStatusFilter(t *testing.T) {
	s := newTestStack()

	w := s.do("GET", "/api/v1/orders?status=nonsense", nil, uuid.New(), false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
