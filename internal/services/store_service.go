// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type StoreService struct {
	db *gorm.DB
}

type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Address     string `json:"address,omitempty" validate:"max=512"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone_vn"`
}

type UpdateStoreRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Address     string `json:"address,omitempty" validate:"max=512"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,phone_vn"`
}

type StoreSearchParams struct {
	utils.PaginationParams
	Status *models.StoreStatus `json:"status,omitempty"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// CreateStore opens a store for a seller. One store per user; new stores
// start pending until an admin activates them.
func (s *StoreService) CreateStore(ownerID uuid.UUID, req *CreateStoreRequest) (*models.Store, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if owner.Role != models.UserRoleSeller && owner.Role != models.UserRoleAdmin {
		return nil, errors.New("only sellers can open a store")
	}

	var existing models.Store
	if err := s.db.Where("owner_id = ?", ownerID).First(&existing).Error; err == nil {
		return nil, errors.New("user already has a store")
	}

	store := &models.Store{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Address:     req.Address,
		Phone:       req.Phone,
		Status:      models.StoreStatusPending,
	}

	if err := s.db.Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return store, nil
}

func (s *StoreService) GetStore(id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.Preload("Owner").First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) GetStoreByOwner(ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.Where("owner_id = ?", ownerID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) UpdateStore(id, ownerID uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var store models.Store
	if err := s.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if store.OwnerID != ownerID {
		return nil, errors.New("unauthorized to update this store")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.LogoURL != "" {
		updates["logo_url"] = req.LogoURL
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(&store).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update store: %w", err)
		}
	}

	return &store, nil
}

func (s *StoreService) SearchStores(params StoreSearchParams) ([]models.Store, int64, error) {
	query := s.db.Model(&models.Store{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		query = query.Where("status = ?", models.StoreStatusActive)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stores: %w", err)
	}

	return stores, total, nil
}

type StoreStats struct {
	ProductCount   int64   `json:"product_count"`
	ActiveProducts int64   `json:"active_products"`
	OrderCount     int64   `json:"order_count"`
	PendingOrders  int64   `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	AverageRating  float64 `json:"average_rating"`
}

// GetStoreStats aggregates the seller dashboard numbers for one store.
func (s *StoreService) GetStoreStats(storeID uuid.UUID) (*StoreStats, error) {
	var store models.Store
	if err := s.db.First(&store, storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	stats := &StoreStats{}

	if err := s.db.Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Count(&stats.ProductCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Product{}).
		Where("store_id = ? AND status = ?", storeID, models.ProductStatusActive).
		Count(&stats.ActiveProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count active products: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("store_id = ?", storeID).
		Count(&stats.OrderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("store_id = ? AND status = ?", storeID, models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	// Cancelled orders do not count toward revenue
	if err := s.db.Model(&models.Order{}).
		Where("store_id = ? AND status IN ?", storeID,
			[]models.OrderStatus{models.OrderStatusPaid, models.OrderStatusShipping, models.OrderStatusDelivered}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	if err := s.db.Model(&models.Product{}).
		Where("store_id = ? AND review_count > 0", storeID).
		Select("COALESCE(AVG(average_rating), 0)").
		Scan(&stats.AverageRating).Error; err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	return stats, nil
}

// SetStoreStatus is the admin moderation hook (activate / suspend).
func (s *StoreService) SetStoreStatus(id uuid.UUID, status models.StoreStatus) (*models.Store, error) {
	var store models.Store
	if err := s.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("store not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&store).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}
	store.Status = status

	// Suspending a store pulls its products off the shelf
	if status == models.StoreStatusSuspended {
		if err := s.db.Model(&models.Product{}).
			Where("store_id = ? AND status = ?", id, models.ProductStatusActive).
			Update("status", models.ProductStatusSuspended).Error; err != nil {
			return nil, fmt.Errorf("failed to suspend store products: %w", err)
		}
	}

	return &store, nil
}
