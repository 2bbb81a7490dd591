package database

import (
	"context"
	"fmt"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.CtxInfo(ctx, "Database migrated", "models", len(models.All()))
	return nil
}
