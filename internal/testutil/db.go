// Package testutil opens throwaway databases and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return db
}

// Product is a valid, active catalog item; override fields before saving.
func Product(name string, price float64, stock int) *domain.Product {
	return &domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Image:       "/images/" + name + ".jpg",
		Category:    domain.CategoryElectronics,
		Stock:       stock,
		IsActive:    true,
	}
}

// CreateProduct stores p and returns it with its generated id.
func CreateProduct(t *testing.T, db *gorm.DB, p *domain.Product) *domain.Product {
	t.Helper()
	require.NoError(t, repository.NewProductRepository(db).CreateProduct(context.Background(), p))
	return p
}

// CreateUser stores a local account with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:    email,
		Name:     "Test User",
		Provider: domain.ProviderLocal,
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
