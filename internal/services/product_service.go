// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	CategoryID     uuid.UUID              `json:"category_id" validate:"required"`
	Name           string                 `json:"name" validate:"required,min=3,max=255"`
	Description    string                 `json:"description" validate:"required,min=10"`
	Price          float64                `json:"price" validate:"required,min=0.01"`
	Quantity       int                    `json:"quantity" validate:"min=0"`
	Images         []string               `json:"images,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID     *uuid.UUID             `json:"category_id,omitempty"`
	Name           string                 `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description    string                 `json:"description,omitempty" validate:"omitempty,min=10"`
	Price          float64                `json:"price,omitempty" validate:"omitempty,min=0.01"`
	Quantity       *int                   `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Images         []string               `json:"images,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	Status         models.ProductStatus   `json:"status,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	StoreID    *uuid.UUID            `json:"store_id,omitempty"`
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	Status     *models.ProductStatus `json:"status,omitempty"`
	PriceMin   *float64              `json:"price_min,omitempty"`
	PriceMax   *float64              `json:"price_max,omitempty"`
	RatingMin  *float64              `json:"rating_min,omitempty"`
	Tags       []string              `json:"tags,omitempty"`
	InStock    *bool                 `json:"in_stock,omitempty"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(storeID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify store exists and is active
	var store models.Store
	if err := s.db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if store.Status != models.StoreStatusActive {
		return nil, errors.New("store is not active")
	}

	// Verify category exists
	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	product := &models.Product{
		StoreID:        storeID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		Images:         pq.StringArray(req.Images),
		Specifications: models.JSONB(req.Specifications),
		Tags:           pq.StringArray(req.Tags),
		Status:         models.ProductStatusDraft,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Load relationships
	s.db.Preload("Store").Preload("Category").First(product, product.ID)

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID, viewerID *uuid.UUID) (*models.Product, error) {
	var product models.Product
	query := s.db.Preload("Store").Preload("Category").Preload("Reviews", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(20)
	}).Preload("Reviews.User")

	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Non-active products are only visible to the owning seller
	if product.Status != models.ProductStatusActive {
		if viewerID == nil {
			return nil, errors.New("product not found")
		}
		var store models.Store
		if err := s.db.First(&store, product.StoreID).Error; err != nil || store.OwnerID != *viewerID {
			return nil, errors.New("product not found")
		}
	}

	// Increment view count for non-owner views
	go s.incrementViewCount(id)

	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, storeID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find and verify ownership
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.StoreID != storeID {
		return nil, errors.New("unauthorized to update this product")
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			return nil, errors.New("category not found")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Specifications != nil {
		updates["specifications"] = models.JSONB(req.Specifications)
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	// Apply updates
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Reload with relationships
	s.db.Preload("Store").Preload("Category").First(&product, id)

	return &product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID, storeID uuid.UUID) error {
	// Find and verify ownership
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if product.StoreID != storeID {
		return errors.New("unauthorized to delete this product")
	}

	// Check if product has completed sales
	var salesCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.status NOT IN ?", id,
			[]models.OrderStatus{models.OrderStatusCancelled}).
		Count(&salesCount).Error; err != nil {
		return fmt.Errorf("failed to check sales: %w", err)
	}

	if salesCount > 0 {
		return errors.New("cannot delete product with existing orders")
	}

	// Soft delete
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Store").Preload("Category")

	// Apply filters
	if params.StoreID != nil {
		query = query.Where("store_id = ?", *params.StoreID)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		// Default to active products only
		query = query.Where("status = ?", models.ProductStatusActive)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.RatingMin != nil {
		query = query.Where("average_rating >= ?", *params.RatingMin)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.Array(params.Tags))
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("quantity > 0")
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting
	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "sales_count", "average_rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)

	// Apply pagination
	query = utils.ApplyPagination(query, params.PaginationParams)

	// Execute query
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// ListByCategory returns all active products of a category, used as the
// candidate pool for comparison views.
func (s *ProductService) ListByCategory(categoryID uuid.UUID, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var products []models.Product
	if err := s.db.Where("category_id = ? AND status = ?", categoryID, models.ProductStatusActive).
		Order("sales_count DESC, average_rating DESC").
		Limit(limit).
		Preload("Store").Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch category products: %w", err)
	}

	return products, nil
}

func (s *ProductService) GetPopularProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("sales_count DESC, average_rating DESC, view_count DESC").
		Limit(limit).
		Preload("Store").Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}

	return products, nil
}

func (s *ProductService) GetLatestProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Preload("Store").Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch latest products: %w", err)
	}

	return products, nil
}

func (s *ProductService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) CreateReview(productID, userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// One review per user per product
	var existing models.Review
	if err := s.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&existing).Error; err == nil {
		return nil, errors.New("you have already reviewed this product")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.recomputeRating(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("User").First(review, review.ID)
	return review, nil
}

// recomputeRating refreshes average_rating and review_count from the
// review rows inside the caller's transaction.
func (s *ProductService) recomputeRating(tx *gorm.DB, productID uuid.UUID) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&stats).Error; err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return tx.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": stats.Avg,
			"review_count":   stats.Count,
		}).Error
}

func (s *ProductService) incrementViewCount(productID uuid.UUID) {
	s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}
