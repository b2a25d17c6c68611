package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/glowshop/backend/internal/application/order"
)

// GormTransactionScope implements the application transaction scope by
// binding fresh repositories to a single GORM transaction.
type GormTransactionScope struct {
	db *Database
}

// NewGormTransactionScope creates a new transaction scope
func NewGormTransactionScope(db *Database) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside one database transaction; every repository it
// receives writes through the same tx handle, so the whole operation
// commits or rolls back as a unit.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apporder.TransactionalRepositories{
			Orders:    NewGormOrderRepository(tx),
			Products:  NewGormProductRepository(tx),
			Discounts: NewGormDiscountRepository(tx),
		})
	})
}

// Ensure GormTransactionScope implements the transaction scope
var _ apporder.TransactionScope = (*GormTransactionScope)(nil)
