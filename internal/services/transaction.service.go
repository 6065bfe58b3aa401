package services

import (
	"context"

	"painlog/internal/database"
	"painlog/internal/logger"

	"gorm.io/gorm"
)

type txContextKey struct{}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a database transaction. Repositories called with the
// context handed to fn join the transaction through GetTransaction. Nested
// calls reuse the outer transaction.
func (ts *TransactionService) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTransaction(ctx); ok {
		return fn(ctx)
	}

	return ts.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTransaction(ctx, tx))
	})
}

func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
