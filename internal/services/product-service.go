package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/dto"
	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/pkg/apperr"
	"github.com/SundayYogurt/store_service/pkg/imaging"
	"github.com/google/uuid"
)

const productImageFolder = "store/products"

type ProductService interface {
	ListProducts(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)

	// Admin
	CreateProduct(ctx context.Context, input dto.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, data []byte) (*dto.UploadResponse, error)
}

type productService struct {
	repo     repository.ProductRepository
	uploader interfaces.Uploader
}

// NewProductService wires the catalog. uploader may be nil, in which case
// image upload reports the service as unavailable.
func NewProductService(repo repository.ProductRepository, uploader interfaces.Uploader) ProductService {
	return &productService{repo: repo, uploader: uploader}
}

func (s *productService) ListProducts(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.ListProducts(ctx, repository.ProductFilter{
		Category: q.Category,
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
		Desc:     q.Order != "asc",
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	return &dto.ProductListResponse{
		Products:    products,
		TotalPages:  totalPages(total, q.Limit),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := s.repo.FindActiveProductById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// ADMIN
func (s *productService) CreateProduct(ctx context.Context, input dto.CreateProductRequest) (*domain.Product, error) {
	p := &domain.Product{
		Name:           input.Name,
		Description:    input.Description,
		Image:          input.Image,
		Images:         input.Images,
		Category:       domain.Category(input.Category),
		Stock:          input.Stock,
		Features:       input.Features,
		Specifications: input.Specifications,
		Rating:         input.Rating,
		Tags:           input.Tags,
	}
	if input.Price != nil {
		p.Price = *input.Price
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "product created", "product_id", p.ID)
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input dto.UpdateProductRequest) (*domain.Product, error) {
	changes := &domain.Product{}
	var columns []string

	if input.Name != nil {
		changes.Name = *input.Name
		columns = append(columns, "name")
	}
	if input.Description != nil {
		changes.Description = *input.Description
		columns = append(columns, "description")
	}
	if input.Price != nil {
		changes.Price = *input.Price
		columns = append(columns, "price")
	}
	if input.Image != nil {
		changes.Image = *input.Image
		columns = append(columns, "image")
	}
	if input.Images != nil {
		changes.Images = *input.Images
		columns = append(columns, "images")
	}
	if input.Category != nil {
		changes.Category = domain.Category(*input.Category)
		columns = append(columns, "category")
	}
	if input.Stock != nil {
		changes.Stock = *input.Stock
		columns = append(columns, "stock")
	}
	if input.Features != nil {
		changes.Features = *input.Features
		columns = append(columns, "features")
	}
	if input.Specifications != nil {
		changes.Specifications = *input.Specifications
		columns = append(columns, "specifications")
	}
	if input.Rating != nil {
		changes.Rating = *input.Rating
		columns = append(columns, "rating")
	}
	if input.Tags != nil {
		changes.Tags = *input.Tags
		columns = append(columns, "tags")
	}

	p, err := s.repo.UpdateProduct(ctx, id, changes, columns)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Product not found")
		}
		return err
	}
	slog.InfoContext(ctx, "product deactivated", "product_id", id)
	return nil
}

// UploadImage normalizes a product photo to JPEG and stores it.
func (s *productService) UploadImage(ctx context.Context, data []byte) (*dto.UploadResponse, error) {
	if s.uploader == nil {
		return nil, apperr.New(apperr.ErrCodeUnavailable, "Image upload is not configured")
	}

	jpg, err := imaging.NormalizeToJPEG(data, imaging.DefaultMaxWidth, imaging.DefaultQuality)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeValidation, "Invalid image", err)
	}

	res, err := s.uploader.UploadBytes(ctx, productImageFolder, uuid.NewString(), jpg)
	if err != nil {
		return nil, err
	}
	return &dto.UploadResponse{URL: res.URL, PublicID: res.PublicID}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
