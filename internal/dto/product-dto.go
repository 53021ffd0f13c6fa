package dto

import "github.com/SundayYogurt/store_service/internal/domain"

type CreateProductRequest struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Description    string            `json:"description" validate:"required"`
	Price          *float64          `json:"price" validate:"required,gte=0"`
	Image          string            `json:"image" validate:"required"`
	Images         []string          `json:"images"`
	Category       string            `json:"category" validate:"required,oneof=Electronics Technology Displays Clothing Footwear Beverages Accessories"`
	Stock          int               `json:"stock" validate:"gte=0"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Rating         float64           `json:"rating" validate:"gte=0,lte=5"`
	Tags           []string          `json:"tags"`
}

// UpdateProductRequest only touches the fields that are present.
type UpdateProductRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string            `json:"description,omitempty" validate:"omitempty,min=1"`
	Price          *float64           `json:"price,omitempty" validate:"omitempty,gte=0"`
	Image          *string            `json:"image,omitempty" validate:"omitempty,min=1"`
	Images         *[]string          `json:"images,omitempty"`
	Category       *string            `json:"category,omitempty" validate:"omitempty,oneof=Electronics Technology Displays Clothing Footwear Beverages Accessories"`
	Stock          *int               `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Features       *[]string          `json:"features,omitempty"`
	Specifications *map[string]string `json:"specifications,omitempty"`
	Rating         *float64           `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Tags           *[]string          `json:"tags,omitempty"`
}

// ProductQuery is the parsed query string of GET /products.
type ProductQuery struct {
	Page     int      `query:"page" validate:"gte=1,lte=100000"`
	Limit    int      `query:"limit" validate:"gte=1,lte=100"`
	Category string   `query:"category"`
	Search   string   `query:"search" validate:"max=100"`
	Sort     string   `query:"sort" validate:"oneof=createdAt price name rating stock"`
	Order    string   `query:"order" validate:"oneof=asc desc"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
}

func DefaultProductQuery() ProductQuery {
	return ProductQuery{Page: 1, Limit: 12, Sort: "createdAt", Order: "desc"}
}

type ProductListResponse struct {
	Products    []domain.Product `json:"products"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int64            `json:"total"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
