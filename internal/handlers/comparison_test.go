// internal/handlers/comparison_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
)

type fakeCatalog struct {
	products map[uuid.UUID]models.Product
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[uuid.UUID]models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) ListByCategory(categoryID uuid.UUID, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(id uuid.UUID, viewerID *uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

func catalogProduct(categoryID uuid.UUID, name string, price, rating float64, qty int) models.Product {
	p := models.Product{
		CategoryID:    categoryID,
		Name:          name,
		Price:         price,
		AverageRating: rating,
		Quantity:      qty,
		Status:        models.ProductStatusActive,
	}
	p.ID = uuid.New()
	return p
}

func comparisonRouter(catalog *fakeCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewComparisonHandler(services.NewComparisonService(catalog))

	r := gin.New()
	r.POST("/comparison", handler.Compare)
	r.GET("/comparison/categories/:id", handler.CompareCategory)
	r.GET("/comparison/categories/:id/candidates", handler.FilterCandidates)
	r.GET("/comparison/products/:id", handler.CompareToProduct)
	return r
}

func TestCompareEndpointReturnsRankedEntries(t *testing.T) {
	category := uuid.New()
	cheap := catalogProduct(category, "Budget Phone", 100, 4.0, 5)
	pricey := catalogProduct(category, "Flagship Phone", 200, 4.5, 3)
	r := comparisonRouter(newFakeCatalog(cheap, pricey))

	body, _ := json.Marshal(gin.H{
		"product_ids": []string{cheap.ID.String(), pricey.ID.String()},
	})
	req := httptest.NewRequest(http.MethodPost, "/comparison", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Comparison struct {
				CategoryID string `json:"category_id"`
				Entries    []struct {
					ProductID string  `json:"product_id"`
					Price     float64 `json:"price"`
					BestPrice bool    `json:"best_price"`
				} `json:"entries"`
			} `json:"comparison"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, category.String(), resp.Data.Comparison.CategoryID)
	require.Len(t, resp.Data.Comparison.Entries, 2)
	assert.Equal(t, cheap.ID.String(), resp.Data.Comparison.Entries[0].ProductID)
	assert.True(t, resp.Data.Comparison.Entries[0].BestPrice)
}

func TestCompareEndpointMixedCategoriesConflicts(t *testing.T) {
	phone := catalogProduct(uuid.New(), "Phone", 100, 4.0, 5)
	laptop := catalogProduct(uuid.New(), "Laptop", 900, 4.5, 2)
	r := comparisonRouter(newFakeCatalog(phone, laptop))

	body, _ := json.Marshal(gin.H{
		"product_ids": []string{phone.ID.String(), laptop.ID.String()},
	})
	req := httptest.NewRequest(http.MethodPost, "/comparison", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompareEndpointUnknownProduct(t *testing.T) {
	r := comparisonRouter(newFakeCatalog())

	body, _ := json.Marshal(gin.H{
		"product_ids": []string{uuid.New().String()},
	})
	req := httptest.NewRequest(http.MethodPost, "/comparison", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareEndpointRejectsEmptyList(t *testing.T) {
	r := comparisonRouter(newFakeCatalog())

	body, _ := json.Marshal(gin.H{"product_ids": []string{}})
	req := httptest.NewRequest(http.MethodPost, "/comparison", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareCategoryEndpoint(t *testing.T) {
	category := uuid.New()
	a := catalogProduct(category, "A", 100, 4.0, 5)
	b := catalogProduct(category, "B", 150, 3.5, 2)
	r := comparisonRouter(newFakeCatalog(a, b))

	req := httptest.NewRequest(http.MethodGet, "/comparison/categories/"+category.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), a.ID.String())
	assert.Contains(t, w.Body.String(), b.ID.String())
}

func TestCompareCategoryEndpointEmpty(t *testing.T) {
	r := comparisonRouter(newFakeCatalog())

	req := httptest.NewRequest(http.MethodGet, "/comparison/categories/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilterCandidatesEndpoint(t *testing.T) {
	category := uuid.New()
	cheap := catalogProduct(category, "Cheap Case", 40, 3.0, 10)
	mid := catalogProduct(category, "Mid Case", 100, 4.5, 5)
	high := catalogProduct(category, "High Case", 200, 4.9, 2)
	r := comparisonRouter(newFakeCatalog(cheap, mid, high))

	url := fmt.Sprintf("/comparison/categories/%s/candidates?min_price=50&max_price=150", category)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Candidates []struct {
				ProductID string `json:"product_id"`
			} `json:"candidates"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Candidates, 1)
	assert.Equal(t, mid.ID.String(), resp.Data.Candidates[0].ProductID)
}

func TestFilterCandidatesEndpointInvalidCategory(t *testing.T) {
	r := comparisonRouter(newFakeCatalog())

	req := httptest.NewRequest(http.MethodGet, "/comparison/categories/not-a-uuid/candidates", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareToProductEndpointExcludesOtherCategories(t *testing.T) {
	category := uuid.New()
	anchor := catalogProduct(category, "Anchor", 150, 4.2, 4)
	rival := catalogProduct(category, "Rival", 120, 3.9, 8)
	other := catalogProduct(uuid.New(), "Unrelated", 50, 2.0, 1)
	r := comparisonRouter(newFakeCatalog(anchor, rival, other))

	req := httptest.NewRequest(http.MethodGet, "/comparison/products/"+anchor.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), rival.ID.String())
	assert.NotContains(t, w.Body.String(), other.ID.String())
}
