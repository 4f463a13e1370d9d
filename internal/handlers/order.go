// internal/handlers/order.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nhtrieuvy/ecommerce-api/internal/i18n"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
	storeService *services.StoreService
}

func NewOrderHandler(orderService *services.OrderService, storeService *services.StoreService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		storeService: storeService,
	}
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	orders, err := h.orderService.Checkout(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "empty") {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCartNotFound))
			return
		}
		if strings.Contains(err.Error(), "insufficient") || strings.Contains(err.Error(), "no longer available") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"orders":  orders,
	})
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := orderSearchParams(c)

	orders, total, err := h.orderService.ListBuyerOrders(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID, userID, currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// GET /seller/orders
func (h *OrderHandler) GetStoreOrders(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	store, err := h.storeService.GetStoreByOwner(userID)
	if err != nil {
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
		return
	}

	params := orderSearchParams(c)

	orders, total, err := h.orderService.ListStoreOrders(store.ID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" validate:"required,oneof=paid shipping delivered"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, userID, currentUserRole(c), req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderUpdated),
		"order":   order,
	})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.CancelOrder(orderID, userID, currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCancelled),
		"order":   order,
	})
}

func orderSearchParams(c *gin.Context) services.OrderSearchParams {
	params := services.OrderSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.OrderStatus(statusStr)
		params.Status = &status
	}

	return params
}

func currentUserRole(c *gin.Context) models.UserRole {
	roleStr, _ := utils.GetUserRoleFromContext(c)
	return models.UserRole(roleStr)
}
