// internal/models/store.go
package models

import (
	"github.com/google/uuid"
)

// Store is a seller's storefront. One store per seller account.
type Store struct {
	BaseModel
	OwnerID     uuid.UUID   `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name        string      `json:"name" gorm:"size:255;not null"`
	Description string      `json:"description" gorm:"type:text"`
	LogoURL     string      `json:"logo_url" gorm:"size:512"`
	Address     string      `json:"address" gorm:"size:512"`
	Phone       string      `json:"phone" gorm:"size:30"`
	Status      StoreStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Owner    User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:StoreID"`
}

type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon" gorm:"size:50"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
