package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortColumns whitelists the sort keys clients may ask for.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"rating":    "rating",
	"stock":     "stock",
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Desc     bool
	Offset   int
	Limit    int
}

type ProductRepository interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, int64, error)
	FindActiveProductById(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindActiveProductsByIds(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, changes *domain.Product, columns []string) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	DeactivateAllProducts(ctx context.Context) (int64, error)
	ListCategories(ctx context.Context) ([]string, error)
	CountProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Product{}).Where("is_active = ?", true)
}

func (r *productRepository) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, int64, error) {
	q := r.active(ctx)

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count products", err)
	}

	column, ok := sortColumns[f.Sort]
	if !ok {
		column = "created_at"
	}
	direction := " ASC"
	if f.Desc {
		direction = " DESC"
	}

	var products []domain.Product
	err := q.Order(column + direction).Order("id").
		Offset(f.Offset).Limit(f.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate("list products", err)
	}
	return products, total, nil
}

func (r *productRepository) FindActiveProductById(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p := &domain.Product{}
	if err := r.active(ctx).First(p, "id = ?", id).Error; err != nil {
		return nil, translate("find product", err)
	}
	return p, nil
}

func (r *productRepository) FindActiveProductsByIds(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	var products []domain.Product
	if len(ids) > 0 {
		if err := r.active(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, translate("find products", err)
		}
	}

	out := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return errors.New("nil product")
	}
	p.IsActive = true
	return translate("create product", r.db.WithContext(ctx).Create(p).Error)
}

// UpdateProduct writes only the named columns of changes to an active
// product and returns the stored row. Columns left out are not written.
// InStock is recomputed only when stock is written.
func (r *productRepository) UpdateProduct(ctx context.Context, id uuid.UUID, changes *domain.Product, columns []string) (*domain.Product, error) {
	if changes == nil {
		return nil, errors.New("nil product changes")
	}
	if len(columns) == 0 {
		return r.FindActiveProductById(ctx, id)
	}

	cols := append([]string{"updated_at"}, columns...)
	if slices.Contains(columns, "stock") {
		changes.InStock = changes.Stock > 0
		cols = append(cols, "in_stock")
	}
	changes.ID = uuid.Nil
	changes.UpdatedAt = time.Now()

	res := r.active(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Where("id = ?", id).
		Select(cols).
		Updates(changes)
	if res.Error != nil {
		return nil, translate("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindActiveProductById(ctx, id)
}

// DeactivateProduct hides the product from the catalog. Order items keep
// pointing at it.
func (r *productRepository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	res := r.active(ctx).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return translate("deactivate product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateAllProducts hides the whole catalog and returns how many
// products were hidden.
func (r *productRepository) DeactivateAllProducts(ctx context.Context) (int64, error) {
	res := r.active(ctx).UpdateColumns(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return 0, translate("deactivate products", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.active(ctx).Distinct("category").Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, translate("list categories", err)
	}
	return categories, nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error; err != nil {
		return 0, translate("count products", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
