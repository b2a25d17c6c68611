package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/domain/promotion"
	"github.com/glowshop/backend/internal/domain/shared"
	"github.com/glowshop/backend/internal/infrastructure/persistence/models"
)

// GormDiscountRepository implements promotion.Repository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GORM-based discount repository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByCode retrieves a discount by code
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*promotion.Discount, error) {
	var model models.DiscountModel
	err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to find discount: %w", err)
	}
	return model.ToDomain(), nil
}

// RecordUsage atomically increments the redemption counter. The
// quantity guard in the WHERE clause makes the check-then-increment
// effectively atomic under concurrent redemptions.
func (r *GormDiscountRepository) RecordUsage(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&models.DiscountModel{}).
		Where("code = ? AND quantity > actual_quantity", code).
		UpdateColumn("actual_quantity", gorm.Expr("actual_quantity + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to record discount usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.DiscountModel{}).
			Where("code = ?", code).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check discount existence: %w", err)
		}
		if count == 0 {
			return shared.ErrDiscountNotFound
		}
		return shared.ErrDiscountExpired
	}
	return nil
}

// Save persists the discount
func (r *GormDiscountRepository) Save(ctx context.Context, d *promotion.Discount) error {
	model := models.DiscountModelFromDomain(d)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save discount: %w", err)
	}
	return nil
}

// Ensure GormDiscountRepository implements promotion.Repository
var _ promotion.Repository = (*GormDiscountRepository)(nil)
