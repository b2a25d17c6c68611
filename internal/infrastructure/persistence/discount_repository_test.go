package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowshop/backend/internal/domain/promotion"
	"github.com/glowshop/backend/internal/domain/shared"
)

func seedDiscount(t *testing.T, repo *GormDiscountRepository, code string, quantity int) *promotion.Discount {
	t.Helper()
	d, err := promotion.NewDiscount(code, 10, decimal.NewFromInt(20000), quantity)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), d))
	return d
}

func TestGormDiscountRepository_FindByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)
	ctx := context.Background()

	seedDiscount(t, repo, "SALE10", 5)

	d, err := repo.FindByCode(ctx, "SALE10")
	require.NoError(t, err)
	assert.Equal(t, "SALE10", d.Code)
	assert.Equal(t, 10, d.Percent)

	_, err = repo.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, shared.ErrDiscountNotFound)
}

func TestGormDiscountRepository_RecordUsage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)
	ctx := context.Background()

	seedDiscount(t, repo, "SALE10", 2)

	require.NoError(t, repo.RecordUsage(ctx, "SALE10"))
	require.NoError(t, repo.RecordUsage(ctx, "SALE10"))

	// the cap holds: the guarded update affects zero rows
	err := repo.RecordUsage(ctx, "SALE10")
	assert.ErrorIs(t, err, shared.ErrDiscountExpired)

	d, err := repo.FindByCode(ctx, "SALE10")
	require.NoError(t, err)
	assert.Equal(t, 2, d.ActualQuantity, "counter never exceeds quantity")
}

func TestGormDiscountRepository_RecordUsage_UnknownCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDiscountRepository(db)

	err := repo.RecordUsage(context.Background(), "NOPE")
	assert.ErrorIs(t, err, shared.ErrDiscountNotFound)
}
