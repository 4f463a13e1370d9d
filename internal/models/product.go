// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	StoreID        uuid.UUID      `json:"store_id" gorm:"type:uuid;not null;index"`
	CategoryID     uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity       int            `json:"quantity" gorm:"default:0"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`
	Specifications JSONB          `json:"specifications" gorm:"type:jsonb"`
	Status         ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	ViewCount      int64          `json:"view_count" gorm:"default:0"`
	SalesCount     int64          `json:"sales_count" gorm:"default:0"`
	AverageRating  float64        `json:"average_rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount    int64          `json:"review_count" gorm:"default:0"`

	// Relationships
	Store    Store    `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Reviews  []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

// InStock reports whether the product has sellable inventory.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// FirstImage returns the primary product image, or "" when none was uploaded.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Review struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
