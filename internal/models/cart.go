// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// Cart holds the items a buyer is assembling. A user has at most one open
// cart; checkout flips it to checked_out and a fresh one is created lazily.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Status CartStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`

	User  User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(12,2);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Subtotal is the line total at the captured unit price.
func (i *CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
