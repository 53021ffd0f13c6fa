package repository

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/SundayYogurt/store_service/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrateLockID serializes migrations between instances starting together.
const migrateLockID int64 = 20260222

// Open connects to Postgres.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// Migrate creates or updates the tables the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.AuditLog{},
	)
}

// MigrateLocked runs Migrate under a Postgres advisory lock.
func MigrateLocked(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return Migrate(db)
	}

	// session-level advisory locks belong to a connection, so pin one
	return db.Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
			return fmt.Errorf("migration lock error: %w", err)
		}
		defer func() {
			_ = tx.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
		}()

		if err := Migrate(tx); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		slog.Info("migration successful")
		return nil
	})
}
