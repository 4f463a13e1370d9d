// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type OrderService struct {
	db                  *gorm.DB
	cartService         *CartService
	notificationService *NotificationService
}

type CheckoutRequest struct {
	ShippingAddress string               `json:"shipping_address" validate:"required,min=10,max=512"`
	ShippingPhone   string               `json:"shipping_phone" validate:"required,phone_vn"`
	Notes           string               `json:"notes,omitempty" validate:"max=1000"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=momo stripe cod"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status *models.OrderStatus `json:"status,omitempty"`
}

// Valid forward transitions per status. Cancellation is handled separately.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:  {models.OrderStatusPaid},
	models.OrderStatusPaid:     {models.OrderStatusShipping},
	models.OrderStatusShipping: {models.OrderStatusDelivered},
}

func NewOrderService(db *gorm.DB, cartService *CartService, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		cartService:         cartService,
		notificationService: notificationService,
	}
}

// Checkout converts the buyer's open cart into orders, one per store, with
// stock deducted atomically. Rows are locked so concurrent checkouts cannot
// oversell.
func (s *OrderService) Checkout(userID uuid.UUID, req *CheckoutRequest) ([]models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var orders []models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartService.CheckoutCart(tx, userID)
		if err != nil {
			return err
		}

		// Group cart lines by the owning store
		itemsByStore := make(map[uuid.UUID][]models.CartItem)
		for _, item := range cart.Items {
			itemsByStore[item.Product.StoreID] = append(itemsByStore[item.Product.StoreID], item)
		}

		for storeID, items := range itemsByStore {
			order := models.Order{
				BuyerID:         userID,
				StoreID:         storeID,
				Status:          models.OrderStatusPending,
				ShippingAddress: req.ShippingAddress,
				ShippingPhone:   req.ShippingPhone,
				Notes:           req.Notes,
			}

			var total float64
			for _, item := range items {
				// Lock the product row and re-check stock
				var product models.Product
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&product, item.ProductID).Error; err != nil {
					return fmt.Errorf("product not found: %w", err)
				}

				if product.Status != models.ProductStatusActive {
					return fmt.Errorf("product %s is no longer available", product.Name)
				}
				if product.Quantity < item.Quantity {
					return fmt.Errorf("insufficient stock for %s", product.Name)
				}

				updates := map[string]interface{}{
					"quantity":    gorm.Expr("quantity - ?", item.Quantity),
					"sales_count": gorm.Expr("sales_count + ?", item.Quantity),
				}
				if product.Quantity == item.Quantity {
					updates["status"] = models.ProductStatusSoldOut
				}
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to deduct stock: %w", err)
				}

				order.Items = append(order.Items, models.OrderItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: product.Price,
				})
				total += product.Price * float64(item.Quantity)
			}

			order.TotalAmount = total
			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}

			payment := models.Payment{
				OrderID: order.ID,
				Method:  req.PaymentMethod,
				Status:  models.PaymentStatusPending,
				Amount:  total,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to create payment record: %w", err)
			}

			orders = append(orders, order)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Confirmation emails happen outside the transaction
	go s.sendCheckoutEmails(orders)

	return orders, nil
}

func (s *OrderService) GetOrder(orderID, userID uuid.UUID, role models.UserRole) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Buyer").Preload("Store").Preload("Payment").
		Preload("Items").Preload("Items.Product").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !s.canViewOrder(&order, userID, role) {
		return nil, errors.New("unauthorized to view this order")
	}

	return &order, nil
}

func (s *OrderService) ListBuyerOrders(userID uuid.UUID, params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("buyer_id = ?", userID).
		Preload("Store").Preload("Payment").Preload("Items").Preload("Items.Product")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	return s.listOrders(query, params)
}

func (s *OrderService) ListStoreOrders(storeID uuid.UUID, params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("store_id = ?", storeID).
		Preload("Buyer").Preload("Payment").Preload("Items").Preload("Items.Product")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	return s.listOrders(query, params)
}

// UpdateOrderStatus advances an order along the pending -> paid -> shipping
// -> delivered chain. Only the selling store (or an admin) may do it.
func (s *OrderService) UpdateOrderStatus(orderID, userID uuid.UUID, role models.UserRole, newStatus models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Buyer").Preload("Store").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if role != models.UserRoleAdmin && order.Store.OwnerID != userID {
		return nil, errors.New("unauthorized to update this order")
	}

	if !isValidTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("cannot transition order from %s to %s", order.Status, newStatus)
	}

	if err := s.db.Model(&order).Update("status", newStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = newStatus

	go func() {
		if err := s.notificationService.SendOrderStatusEmail(&order); err != nil {
			logrus.WithError(err).Warn("Failed to send order status email")
		}
	}()

	return &order, nil
}

// CancelOrder cancels a pending order and restores the reserved stock.
func (s *OrderService) CancelOrder(orderID, userID uuid.UUID, role models.UserRole) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").Preload("Store").
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("order not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		isBuyer := order.BuyerID == userID
		isSeller := order.Store.OwnerID == userID
		if !isBuyer && !isSeller && role != models.UserRoleAdmin {
			return errors.New("unauthorized to cancel this order")
		}

		if order.Status != models.OrderStatusPending {
			return errors.New("only pending orders can be cancelled")
		}

		// Return the reserved stock
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"quantity":    gorm.Expr("quantity + ?", item.Quantity),
					"sales_count": gorm.Expr("GREATEST(sales_count - ?, 0)", item.Quantity),
					"status":      models.ProductStatusActive,
				}).Error; err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		order.Status = models.OrderStatusCancelled

		return tx.Model(&models.Payment{}).Where("order_id = ? AND status = ?",
			order.ID, models.PaymentStatusPending).
			Update("status", models.PaymentStatusFailed).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *OrderService) listOrders(query *gorm.DB, params OrderSearchParams) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total_amount", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) canViewOrder(order *models.Order, userID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	if order.BuyerID == userID {
		return true
	}
	var store models.Store
	if err := s.db.First(&store, order.StoreID).Error; err != nil {
		return false
	}
	return store.OwnerID == userID
}

func (s *OrderService) sendCheckoutEmails(orders []models.Order) {
	for i := range orders {
		var order models.Order
		if err := s.db.Preload("Buyer").Preload("Items").Preload("Store").
			First(&order, orders[i].ID).Error; err != nil {
			continue
		}

		if err := s.notificationService.SendOrderConfirmationEmail(&order); err != nil {
			logrus.WithError(err).Warn("Failed to send order confirmation email")
		}

		var seller models.User
		if err := s.db.First(&seller, order.Store.OwnerID).Error; err == nil {
			if err := s.notificationService.SendNewOrderEmail(&order, &seller); err != nil {
				logrus.WithError(err).Warn("Failed to send new order email")
			}
		}
	}
}

func isValidTransition(from, to models.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
