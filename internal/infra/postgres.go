package infra

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"travelmind/internal/config"
	"travelmind/internal/models/db_models"
)

func InitPostgresql(cfg config.DatabaseConfig) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return connectionPool, nil
}

// Migrate creates the pgvector extension and the application tables.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.AutoMigrate(&db_models.Trip{}, &db_models.Expense{}, &db_models.UserProfile{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting database instance", slog.Any("error", err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		slog.Error("Error closing database connection", slog.Any("error", err))
	} else {
		slog.Info("PostgreSQL database connection closed")
	}
}

func StartTransaction(db *gorm.DB) *gorm.DB {
	tx := db.Begin()
	if tx.Error != nil {
		slog.Error("Error starting transaction", slog.Any("error", tx.Error))
	}
	return tx
}

// ReleaseTransaction commits tx when err is nil and rolls back otherwise.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			slog.Error("Error rolling back transaction", slog.Any("error", rollbackErr))
		}
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		slog.Error("Error committing transaction", slog.Any("error", commitErr))
		return commitErr
	}
	return nil
}
