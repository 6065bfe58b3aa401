package repositories

import (
	"context"
	"errors"

	"painlog/internal/database"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/services"

	"gorm.io/gorm"
)

func getDB(ctx context.Context, db database.DB) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return db.SQLWithContext(ctx)
}

// translate maps a gorm error onto the record-store error kinds. Typed errors
// raised by model hooks pass through untouched.
func translate(log logger.Logger, entity, msg string, err error, args ...any) error {
	if _, ok := AsAppError(err); ok {
		log.Debug(msg, append([]any{"error", err}, args...)...)
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug(msg, append([]any{"error", err}, args...)...)
		return NewNotFoundError("%s not found", entity)
	}
	return NewStorageError(msg, log.Err(msg, err, args...))
}
