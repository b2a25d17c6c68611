package order

import (
	"context"

	"github.com/glowshop/backend/internal/domain/catalog"
	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/promotion"
)

// TransactionalRepositories bundles the repositories participating in
// a single database transaction
type TransactionalRepositories struct {
	Orders    order.Repository
	Products  catalog.Repository
	Discounts promotion.Repository
}

// TransactionScope executes a function within a database transaction.
// All repository operations inside fn commit or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against the given repositories
// without any transaction. Used in tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}
