package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/domain/catalog"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.Repository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByIDs retrieves the products for the given IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	var modelList []models.ProductModel
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	products := make([]*catalog.Product, len(modelList))
	for i := range modelList {
		products[i] = modelList[i].ToDomain()
	}
	return products, nil
}

// DecrementStock atomically subtracts amount from the product's stock.
// The guard in the WHERE clause makes concurrent decrements safe:
// whichever update runs second sees the reduced stock and affects zero
// rows when it would go negative.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND stock_amount >= ?", id, amount).
		UpdateColumn("stock_amount", gorm.Expr("stock_amount - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check product existence: %w", err)
		}
		if count == 0 {
			return shared.ErrProductNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// Restock atomically adds amount back to the product's stock
func (r *GormProductRepository) Restock(ctx context.Context, id uuid.UUID, amount int) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("stock_amount", gorm.Expr("stock_amount + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to restock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

// Save persists the product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	model := models.ProductModelFromDomain(p)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Ensure GormProductRepository implements catalog.Repository
var _ catalog.Repository = (*GormProductRepository)(nil)
