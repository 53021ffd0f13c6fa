package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryTechnology  Category = "Technology"
	CategoryDisplays    Category = "Displays"
	CategoryClothing    Category = "Clothing"
	CategoryFootwear    Category = "Footwear"
	CategoryBeverages   Category = "Beverages"
	CategoryAccessories Category = "Accessories"
)

// Categories is the closed set a product may belong to.
var Categories = []Category{
	CategoryElectronics,
	CategoryTechnology,
	CategoryDisplays,
	CategoryClothing,
	CategoryFootwear,
	CategoryBeverages,
	CategoryAccessories,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog item. It is never removed; IsActive=false hides it.
type Product struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string            `gorm:"type:varchar(200);not null" json:"name"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	Price          float64           `gorm:"type:decimal(12,2);not null" json:"price"`
	Image          string            `gorm:"type:text;not null" json:"image"`
	Images         []string          `gorm:"serializer:json;type:text" json:"images"`
	Category       Category          `gorm:"type:varchar(50);not null;index" json:"category"`
	InStock        bool              `gorm:"not null" json:"inStock"`
	Stock          int               `gorm:"not null;default:0" json:"stock"`
	Features       []string          `gorm:"serializer:json;type:text" json:"features"`
	Specifications map[string]string `gorm:"serializer:json;type:text" json:"specifications"`
	Rating         float64           `gorm:"not null;default:0" json:"rating"`
	ReviewCount    int               `gorm:"not null;default:0" json:"reviewCount"`
	Tags           []string          `gorm:"serializer:json;type:text" json:"tags"`
	IsActive       bool              `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps InStock in line with Stock.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.InStock = p.Stock > 0
	return nil
}
