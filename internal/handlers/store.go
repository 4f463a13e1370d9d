// internal/handlers/store.go
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

type StoreHandler struct {
	storeService   *services.StoreService
	storageService *services.StorageService
}

func NewStoreHandler(storeService *services.StoreService, storageService *services.StorageService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		storageService: storageService,
	}
}

// GET /stores
func (h *StoreHandler) GetStores(c *gin.Context) {
	params := services.StoreSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	stores, total, err := h.storeService.SearchStores(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(stores, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	store, err := h.storeService.GetStore(storeID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// POST /stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.CreateStore(userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "only sellers") {
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeySellerOnly))
			return
		}
		if strings.Contains(err.Error(), "already has") {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyStoreExists))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreCreated),
		"store":   store,
	})
}

// GET /seller/store
func (h *StoreHandler) GetMyStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	store, err := h.storeService.GetStoreByOwner(userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /seller/store/stats
func (h *StoreHandler) GetMyStoreStats(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	store, err := h.storeService.GetStoreByOwner(userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
		return
	}

	stats, err := h.storeService.GetStoreStats(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store_id": store.ID,
		"stats":    stats,
	})
}

// PUT /stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	store, err := h.storeService.UpdateStore(storeID, userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// POST /stores/:id/logo
func (h *StoreHandler) UploadLogo(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "logo"), nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
		return
	}

	options := h.storageService.GetDefaultUploadOptions("stores")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	store, err := h.storeService.UpdateStore(storeID, userID, &services.UpdateStoreRequest{
		LogoURL: result.URL,
	})
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"store":   store,
	})
}

// PUT /admin/stores/:id/status
func (h *StoreHandler) SetStoreStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	var req struct {
		Status models.StoreStatus `json:"status" validate:"required,oneof=pending active suspended"`
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

	store, err := h.storeService.SetStoreStatus(storeID, req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyStoreNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}
