package seed

import (
	"context"
	"testing"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaultProducts(t *testing.T) {
	products, err := DefaultProducts()
	require.NoError(t, err)
	require.Len(t, products, 8)

	first := products[0]
	assert.Equal(t, "Neural Interface Headset", first.Name)
	assert.Equal(t, 4999.99, first.Price)
	assert.Equal(t, domain.CategoryTechnology, first.Category)
	assert.Equal(t, "24 hours", first.Specifications["Battery Life"])
	assert.Contains(t, first.Tags, "neural")

	for _, p := range products {
		assert.True(t, p.Category.Valid(), p.Name)
		assert.NotEmpty(t, p.Image, p.Name)
	}
}

func TestLoadProductsRejectsBadRecords(t *testing.T) {
	_, err := LoadProducts([]byte("- name: Thing\n  category: Toys\n"))
	assert.ErrorContains(t, err, "unknown category")

	_, err = LoadProducts([]byte("- category: Clothing\n"))
	assert.ErrorContains(t, err, "name is required")

	_, err = LoadProducts([]byte("- name: Thing\n  category: Clothing\n  price: -1\n"))
	assert.Error(t, err)

	_, err = LoadProducts([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestParseProductMode(t *testing.T) {
	m, err := ParseProductMode("force")
	require.NoError(t, err)
	assert.Equal(t, ProductsForce, m)

	_, err = ParseProductMode("always")
	assert.Error(t, err)
}

func TestProducts_Modes(t *testing.T) {
	repo := repository.NewProductRepository(testutil.NewDB(t))
	ctx := context.Background()
	sample := []domain.Product{*testutil.Product("Mouse", 30, 5), *testutil.Product("Cable", 20, 10)}

	n, err := Products(ctx, repo, sample, ProductsAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Products(ctx, repo, sample, ProductsAuto)
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty catalog is left alone")

	n, err = Products(ctx, repo, sample, ProductsSkip)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Products(ctx, repo, sample, ProductsForce)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, total, err := repo.ListProducts(ctx, repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "force hides the previous rows")

	all, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all)
}

func TestAdmin(t *testing.T) {
	repo := repository.NewUserRepository(testutil.NewDB(t))
	ctx := context.Background()
	auth := helper.SetupAuth("secret")
	auth.Cost = bcrypt.MinCost

	_, err := Admin(ctx, repo, auth, "admin@example.com", "")
	assert.Error(t, err)

	admin, err := Admin(ctx, repo, auth, " Admin@Example.com ", "AdminPassword")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.True(t, admin.IsAdmin())
	require.NotNil(t, admin.PasswordHash)
	assert.NoError(t, auth.VerifyPassword("AdminPassword", *admin.PasswordHash))

	again, err := Admin(ctx, repo, auth, "other@example.com", "AdminPassword")
	require.NoError(t, err)
	assert.Nil(t, again)
}
