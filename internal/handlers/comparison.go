// internal/handlers/comparison.go
package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nhtrieuvy/ecommerce-api/internal/comparison"
	"github.com/nhtrieuvy/ecommerce-api/internal/i18n"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type ComparisonHandler struct {
	comparisonService *services.ComparisonService
}

func NewComparisonHandler(comparisonService *services.ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{
		comparisonService: comparisonService,
	}
}

// POST /comparison
func (h *ComparisonHandler) Compare(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.comparisonService.BuildComparison(req.ProductIDs)
	if err != nil {
		if errors.Is(err, comparison.ErrCategoryMismatch) {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyComparisonCategoryMismatch))
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyProductNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"comparison": result,
	})
}

// GET /comparison/categories/:id
func (h *ComparisonHandler) CompareCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	result, err := h.comparisonService.CompareCategory(categoryID, limit)
	if err != nil {
		if strings.Contains(err.Error(), "no products") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyComparisonNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"comparison": result,
	})
}

// GET /comparison/products/:id
func (h *ComparisonHandler) CompareToProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	result, err := h.comparisonService.ComparableProducts(productID, limit)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyProductNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"comparison": result,
	})
}

// GET /comparison/categories/:id/candidates
func (h *ComparisonHandler) FilterCandidates(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	req := services.CandidateFilterRequest{
		SearchTerm: c.Query("q"),
	}

	if minPriceStr := c.Query("min_price"); minPriceStr != "" {
		if minPrice, err := strconv.ParseFloat(minPriceStr, 64); err == nil {
			req.MinPrice = &minPrice
		}
	}

	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		if maxPrice, err := strconv.ParseFloat(maxPriceStr, 64); err == nil {
			req.MaxPrice = &maxPrice
		}
	}

	if minRatingStr := c.Query("min_rating"); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil {
			req.MinRating = &minRating
		}
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			req.InStockOnly = inStock
		}
	}

	candidates, err := h.comparisonService.FilterCandidates(categoryID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"candidates": candidates,
	})
}
