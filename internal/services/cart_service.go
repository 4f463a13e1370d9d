// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreateCart returns the user's open cart, creating one when none
// exists. Each user has at most one open cart.
func (s *CartService) GetOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("user_id = ? AND status = ?", userID, models.CartStatusOpen).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").Preload("Items.Product.Store").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{
			UserID: userID,
			Status: models.CartStatusOpen,
		}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &cart, nil
}

func (s *CartService) AddItem(userID uuid.UUID, req *AddCartItemRequest) (*models.Cart, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status != models.ProductStatusActive {
		return nil, errors.New("product is not available")
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	// Merge with an existing line for the same product
	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > product.Quantity {
			return nil, errors.New("insufficient stock for requested quantity")
		}
		if err := s.db.Model(&item).Updates(map[string]interface{}{
			"quantity":   newQuantity,
			"unit_price": product.Price,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > product.Quantity {
			return nil, errors.New("insufficient stock for requested quantity")
		}
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.GetOrCreateCart(userID)
}

func (s *CartService) UpdateItem(userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.Cart, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	// Quantity zero removes the line
	if req.Quantity == 0 {
		if err := s.db.Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.GetOrCreateCart(userID)
	}

	var product models.Product
	if err := s.db.First(&product, item.ProductID).Error; err != nil {
		return nil, errors.New("product not found")
	}
	if req.Quantity > product.Quantity {
		return nil, errors.New("insufficient stock for requested quantity")
	}

	if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.GetOrCreateCart(userID)
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) (*models.Cart, error) {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetOrCreateCart(userID)
}

func (s *CartService) ClearCart(userID uuid.UUID) error {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// CheckoutCart marks the cart checked out and returns its items. The caller
// runs this inside its own transaction so stock deduction stays atomic.
func (s *CartService) CheckoutCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, models.CartStatusOpen).
		Preload("Items").Preload("Items.Product").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("cart not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	if err := tx.Model(&cart).Update("status", models.CartStatusCheckedOut).Error; err != nil {
		return nil, fmt.Errorf("failed to checkout cart: %w", err)
	}

	return &cart, nil
}

func (s *CartService) findOwnedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ? AND carts.status = ?",
			itemID, userID, models.CartStatusOpen).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("cart item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}
