// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	BuyerID         uuid.UUID   `json:"buyer_id" gorm:"type:uuid;not null;index"`
	StoreID         uuid.UUID   `json:"store_id" gorm:"type:uuid;not null;index"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount     float64     `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	ShippingAddress string      `json:"shipping_address" gorm:"size:512"`
	ShippingPhone   string      `json:"shipping_phone" gorm:"size:30"`
	Notes           string      `json:"notes" gorm:"type:text"`

	// Relationships
	Buyer   User        `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Store   Store       `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Payment *Payment    `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(12,2);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Payment struct {
	BaseModel
	OrderID     uuid.UUID     `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	Method      PaymentMethod `json:"method" gorm:"type:varchar(20);not null"`
	Status      PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Amount      float64       `json:"amount" gorm:"type:decimal(12,2);not null"`
	Reference   string        `json:"reference" gorm:"size:255;index"`
	ProcessedAt *time.Time    `json:"processed_at"`
	FailReason  string        `json:"fail_reason,omitempty" gorm:"size:255"`
	Metadata    JSONB         `json:"metadata,omitempty" gorm:"type:jsonb"`
}
