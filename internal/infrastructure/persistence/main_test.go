package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glowshop/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory sqlite database with the full schema,
// including the partial unique index guarding the one-open-cart-per-user
// invariant.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.OrderModel{},
		&models.OrderLineModel{},
		&models.ProductModel{},
		&models.DiscountModel{},
	))
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX uniq_orders_open_cart ON orders (user_id) WHERE status = 'in_cart'`,
	).Error)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
