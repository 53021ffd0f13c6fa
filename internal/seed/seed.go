// Package seed loads the first admin account and the sample catalog.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/repository"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

// ProductMode controls how the sample catalog is applied.
type ProductMode string

const (
	// ProductsAuto seeds only an empty catalog.
	ProductsAuto ProductMode = "auto"
	// ProductsForce hides every existing product and seeds again.
	ProductsForce ProductMode = "force"
	// ProductsSkip leaves the catalog alone.
	ProductsSkip ProductMode = "skip"
)

func ParseProductMode(s string) (ProductMode, error) {
	switch m := ProductMode(s); m {
	case ProductsAuto, ProductsForce, ProductsSkip:
		return m, nil
	}
	return "", fmt.Errorf("unknown products mode %q (want auto, force or skip)", s)
}

type productRecord struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Price          float64           `yaml:"price"`
	Image          string            `yaml:"image"`
	Category       string            `yaml:"category"`
	Stock          int               `yaml:"stock"`
	Rating         float64           `yaml:"rating"`
	Features       []string          `yaml:"features"`
	Specifications map[string]string `yaml:"specifications"`
	Tags           []string          `yaml:"tags"`
}

// LoadProducts parses a YAML list of products.
func LoadProducts(data []byte) ([]domain.Product, error) {
	var records []productRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, r := range records {
		category := domain.Category(r.Category)
		switch {
		case r.Name == "":
			return nil, fmt.Errorf("product %d: name is required", i)
		case !category.Valid():
			return nil, fmt.Errorf("product %q: unknown category %q", r.Name, r.Category)
		case r.Price < 0 || r.Stock < 0:
			return nil, fmt.Errorf("product %q: price and stock must not be negative", r.Name)
		}

		products = append(products, domain.Product{
			Name:           r.Name,
			Description:    r.Description,
			Price:          r.Price,
			Image:          r.Image,
			Category:       category,
			Stock:          r.Stock,
			Rating:         r.Rating,
			Features:       r.Features,
			Specifications: r.Specifications,
			Tags:           r.Tags,
		})
	}
	return products, nil
}

// DefaultProducts is the bundled sample catalog.
func DefaultProducts() ([]domain.Product, error) {
	return LoadProducts(productsYAML)
}

// Products applies products according to mode and returns how many were
// inserted.
func Products(ctx context.Context, repo repository.ProductRepository, products []domain.Product, mode ProductMode) (int, error) {
	switch mode {
	case ProductsSkip:
		return 0, nil
	case ProductsAuto:
		n, err := repo.CountProducts(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			slog.Info("catalog not empty, skipping sample products", "products", n)
			return 0, nil
		}
	case ProductsForce:
		// order items still reference old rows, so hide instead of delete
		hidden, err := repo.DeactivateAllProducts(ctx)
		if err != nil {
			return 0, err
		}
		slog.Info("hid existing products", "products", hidden)
	default:
		return 0, fmt.Errorf("unknown products mode %q", mode)
	}

	for i := range products {
		p := products[i]
		if err := repo.CreateProduct(ctx, &p); err != nil {
			return i, fmt.Errorf("create product %q: %w", p.Name, err)
		}
	}
	slog.Info("sample products inserted", "products", len(products))
	return len(products), nil
}

// Admin creates the first admin account unless one exists. It returns nil
// when nothing was created.
func Admin(ctx context.Context, repo repository.UserRepository, auth helper.Auth, email, password string) (*domain.User, error) {
	if password == "" {
		return nil, errors.New("ADMIN_PASSWORD is required to seed the admin user")
	}

	exists, err := repo.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		slog.Info("admin user already exists")
		return nil, nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &domain.User{
		Name:         "Admin User",
		Email:        helper.NormalizeEmail(email),
		PasswordHash: &hashed,
		Provider:     domain.ProviderLocal,
		IsVerified:   true,
	}
	if err := repo.CreateFirstAdmin(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			return nil, nil
		}
		return nil, err
	}

	slog.Info("default admin user created", "email", admin.Email)
	return admin, nil
}
