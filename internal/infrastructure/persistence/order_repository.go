package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindCartByUser retrieves the user's open cart
func (r *GormOrderRepository) FindCartByUser(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("user_id = ? AND status = ?", userID, order.OrderStatusInCart.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return model.ToDomain(), nil
}

// GetOrCreateCart returns the user's open cart, creating it when
// absent. Insertion goes through ON CONFLICT DO NOTHING against the
// partial unique index on open carts, so two concurrent first calls
// for the same user converge on a single row.
func (r *GormOrderRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*order.Order, error) {
	cart, err := r.FindCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrCartNotFound) {
		return nil, err
	}

	fresh, err := order.NewCartOrder(userID)
	if err != nil {
		return nil, err
	}
	model := models.OrderModelFromDomain(fresh)

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Name: "status"}, Value: order.OrderStatusInCart.String()},
		}},
		DoNothing: true,
	}).Omit("Lines").Create(model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	// refetch: either our row or the one a concurrent request won with
	return r.FindCartByUser(ctx, userID)
}

// FindByGatewayCode retrieves an order by its payment reconciliation code
func (r *GormOrderRepository) FindByGatewayCode(ctx context.Context, code string) (*order.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("gateway_code = ?", code).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by gateway code: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByExternalID retrieves an imported order by channel and channel-local ID
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, source, externalID string) (*order.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("source = ? AND external_order_id = ?", source, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by external id: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists non-cart orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*order.Order, error) {
	var modelList []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Preload("Lines"), filter)

	orderBy := "created_at"
	switch filter.OrderBy {
	case "updated_at", "total_price", "status":
		orderBy = filter.OrderBy
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(orderBy + " " + dir)

	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*order.Order, len(modelList))
	for i := range modelList {
		orders[i] = modelList[i].ToDomain()
	}
	return orders, nil
}

// Count counts non-cart orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Where("status <> ?", order.OrderStatusInCart.String())

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receiver ILIKE ? OR phone ILIKE ? OR gateway_code ILIKE ?", pattern, pattern, pattern)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("created_at <= ?", to)
	}
	return query
}

// Save persists the order and replaces its full line set
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	db := r.db.WithContext(ctx)

	if err := db.Omit("Lines").Save(model).Error; err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	if err := db.Where("order_id = ?", o.ID).Delete(&models.OrderLineModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear order lines: %w", err)
	}
	if len(model.Lines) > 0 {
		if err := db.Create(&model.Lines).Error; err != nil {
			return fmt.Errorf("failed to save order lines: %w", err)
		}
	}
	return nil
}

// GetCartItems returns the product-joined view of the user's cart.
// Price is the product's current effective price: sale price when set,
// list price otherwise.
func (r *GormOrderRepository) GetCartItems(ctx context.Context, userID uuid.UUID) ([]order.CartItemView, error) {
	var items []order.CartItemView
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id AS order_id,
			order_lines.product_id,
			products.name AS product_name,
			order_lines.size,
			order_lines.amount,
			COALESCE(products.sale_price, products.price) AS price,
			products.image`).
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, order.OrderStatusInCart.String()).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return items, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
