package repository_test

import (
	"context"
	"testing"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) (repository.ProductRepository, map[string]*domain.Product) {
	t.Helper()
	db := testutil.NewDB(t)

	phone := testutil.Product("Phone", 699, 10)
	phone.Description = "Flagship smartphone"
	shirt := testutil.Product("Shirt", 25, 40)
	shirt.Category = domain.CategoryClothing
	shirt.Description = "Cotton tee"
	monitor := testutil.Product("Monitor", 299, 0)
	monitor.Category = domain.CategoryDisplays
	monitor.Description = "27 inch 4K panel"
	hidden := testutil.Product("Hidden Phone", 10, 5)

	products := map[string]*domain.Product{}
	for _, p := range []*domain.Product{phone, shirt, monitor, hidden} {
		products[p.Name] = testutil.CreateProduct(t, db, p)
	}

	repo := repository.NewProductRepository(db)
	require.NoError(t, repo.DeactivateProduct(context.Background(), hidden.ID))
	return repo, products
}

func names(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_ListOnlyActive(t *testing.T) {
	repo, _ := seedCatalog(t)

	ps, total, err := repo.ListProducts(context.Background(), repository.ProductFilter{Sort: "name", Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Monitor", "Phone", "Shirt"}, names(ps))
	for _, p := range ps {
		assert.True(t, p.IsActive)
	}
}

func TestProductRepository_ListFilters(t *testing.T) {
	repo, _ := seedCatalog(t)
	ctx := context.Background()
	min, max := 20.0, 300.0

	tests := []struct {
		name   string
		filter repository.ProductFilter
		want   []string
	}{
		{"category", repository.ProductFilter{Category: "Clothing"}, []string{"Shirt"}},
		{"search name case-insensitive", repository.ProductFilter{Search: "PHONE"}, []string{"Phone"}},
		{"search description", repository.ProductFilter{Search: "4k"}, []string{"Monitor"}},
		{"search category", repository.ProductFilter{Search: "cloth"}, []string{"Shirt"}},
		{"search treats wildcards literally", repository.ProductFilter{Search: "%"}, []string{}},
		{"price range", repository.ProductFilter{MinPrice: &min, MaxPrice: &max}, []string{"Monitor", "Shirt"}},
		{"sort price desc", repository.ProductFilter{Sort: "price", Desc: true}, []string{"Phone", "Monitor", "Shirt"}},
		{"unknown sort falls back", repository.ProductFilter{Sort: "price; DROP TABLE products", Desc: false}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			f.Limit = 50
			if f.Sort == "" {
				f.Sort = "name"
			}
			ps, total, err := repo.ListProducts(ctx, f)
			require.NoError(t, err)
			if tt.want == nil {
				assert.EqualValues(t, 3, total)
				return
			}
			assert.Equal(t, tt.want, names(ps))
			assert.EqualValues(t, len(tt.want), total)
		})
	}
}

func TestProductRepository_Pagination(t *testing.T) {
	repo, _ := seedCatalog(t)

	ps, total, err := repo.ListProducts(context.Background(), repository.ProductFilter{Sort: "name", Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Shirt"}, names(ps))
}

func TestProductRepository_FindAndDeactivate(t *testing.T) {
	repo, products := seedCatalog(t)
	ctx := context.Background()

	found, err := repo.FindActiveProductById(ctx, products["Phone"].ID)
	require.NoError(t, err)
	assert.Equal(t, "Flagship smartphone", found.Description)
	assert.True(t, found.InStock)

	_, err = repo.FindActiveProductById(ctx, products["Hidden Phone"].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.DeactivateProduct(ctx, products["Phone"].ID))
	_, err = repo.FindActiveProductById(ctx, products["Phone"].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.DeactivateProduct(ctx, products["Phone"].ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.DeactivateProduct(ctx, uuid.New()), repository.ErrNotFound)
}

func TestProductRepository_InStockFollowsStock(t *testing.T) {
	repo, products := seedCatalog(t)
	ctx := context.Background()

	monitor, err := repo.FindActiveProductById(ctx, products["Monitor"].ID)
	require.NoError(t, err)
	assert.False(t, monitor.InStock)

	changes := &domain.Product{
		Stock:          3,
		Specifications: map[string]string{"size": "27in"},
		Tags:           []string{"4k"},
	}
	reloaded, err := repo.UpdateProduct(ctx, monitor.ID, changes, []string{"stock", "specifications", "tags"})
	require.NoError(t, err)
	assert.True(t, reloaded.InStock)
	assert.Equal(t, 3, reloaded.Stock)
	assert.Equal(t, "27in", reloaded.Specifications["size"])
	assert.Equal(t, []string{"4k"}, reloaded.Tags)
	assert.Equal(t, monitor.Name, reloaded.Name)
}

func TestProductRepository_UpdateProductWritesOnlyNamedColumns(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()
	id := testutil.CreateProduct(t, db, testutil.Product("Monitor", 299, 6)).ID

	before, err := repo.FindActiveProductById(ctx, id)
	require.NoError(t, err)

	// stock moves after the caller read the row; a rename must not touch it
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", id).UpdateColumn("stock", 4).Error)

	renamed, err := repo.UpdateProduct(ctx, id, &domain.Product{Name: "Monitor Pro", Stock: 99}, []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, "Monitor Pro", renamed.Name)
	assert.Equal(t, 4, renamed.Stock)
	assert.Equal(t, before.InStock, renamed.InStock, "in_stock untouched without stock")
	assert.Equal(t, before.Price, renamed.Price)

	require.NoError(t, repo.DeactivateProduct(ctx, id))
	_, err = repo.UpdateProduct(ctx, id, &domain.Product{Name: "Back"}, []string{"name"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.UpdateProduct(ctx, uuid.New(), &domain.Product{Name: "Ghost"}, []string{"name"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductRepository_FindActiveProductsByIds(t *testing.T) {
	repo, products := seedCatalog(t)

	found, err := repo.FindActiveProductsByIds(context.Background(), []uuid.UUID{
		products["Phone"].ID, products["Hidden Phone"].ID, uuid.New(),
	})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, products["Phone"].ID)
}

func TestProductRepository_ListCategories(t *testing.T) {
	repo, _ := seedCatalog(t)

	cats, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Clothing", "Displays", "Electronics"}, cats)

	n, err := repo.CountProducts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}
