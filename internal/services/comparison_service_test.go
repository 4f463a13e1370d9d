// internal/services/comparison_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhtrieuvy/ecommerce-api/internal/comparison"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
)

// stubLister serves products from memory so comparison flows can run
// without a database.
type stubLister struct {
	products map[uuid.UUID]models.Product
}

func newStubLister(products ...models.Product) *stubLister {
	s := &stubLister{products: make(map[uuid.UUID]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubLister) ListByCategory(categoryID uuid.UUID, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubLister) GetProduct(id uuid.UUID, viewerID *uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

func testProduct(categoryID uuid.UUID, name string, price, rating float64, qty int) models.Product {
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

func TestBuildComparisonRanksEntries(t *testing.T) {
	category := uuid.New()
	cheap := testProduct(category, "Budget Phone", 100, 4.0, 5)
	pricey := testProduct(category, "Flagship Phone", 200, 4.8, 3)

	svc := NewComparisonService(newStubLister(cheap, pricey))

	result, err := svc.BuildComparison([]uuid.UUID{cheap.ID, pricey.ID})
	require.NoError(t, err)
	assert.Equal(t, category.String(), result.CategoryID)
	require.Len(t, result.Entries, 2)

	// Small sets come back sorted ascending by price
	assert.Equal(t, cheap.ID.String(), result.Entries[0].ProductID)
	assert.True(t, result.Entries[0].BestPrice)
	assert.False(t, result.Entries[1].BestPrice)
	assert.True(t, result.Entries[1].BestRated)
	assert.InDelta(t, -33.33, result.Entries[0].PriceComparisonPercent, 0.01)
	assert.InDelta(t, 33.33, result.Entries[1].PriceComparisonPercent, 0.01)
}

func TestBuildComparisonRejectsMixedCategories(t *testing.T) {
	phones := uuid.New()
	laptops := uuid.New()
	phone := testProduct(phones, "Phone", 100, 4.0, 5)
	laptop := testProduct(laptops, "Laptop", 900, 4.5, 2)

	svc := NewComparisonService(newStubLister(phone, laptop))

	_, err := svc.BuildComparison([]uuid.UUID{phone.ID, laptop.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, comparison.ErrCategoryMismatch)
}

func TestBuildComparisonUnknownProduct(t *testing.T) {
	svc := NewComparisonService(newStubLister())

	_, err := svc.BuildComparison([]uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBuildComparisonEmptyRequest(t *testing.T) {
	svc := NewComparisonService(newStubLister())

	_, err := svc.BuildComparison(nil)
	require.Error(t, err)
}

func TestCompareCategoryEmptyCategory(t *testing.T) {
	svc := NewComparisonService(newStubLister())

	_, err := svc.CompareCategory(uuid.New(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no products")
}

func TestComparableProductsAnchorsCategory(t *testing.T) {
	category := uuid.New()
	anchor := testProduct(category, "Anchor", 150, 4.2, 4)
	rival := testProduct(category, "Rival", 120, 3.9, 8)
	other := testProduct(uuid.New(), "Unrelated", 50, 2.0, 1)

	svc := NewComparisonService(newStubLister(anchor, rival, other))

	result, err := svc.ComparableProducts(anchor.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, category.String(), result.CategoryID)
	require.Len(t, result.Entries, 2)

	ids := []string{result.Entries[0].ProductID, result.Entries[1].ProductID}
	assert.Contains(t, ids, anchor.ID.String())
	assert.Contains(t, ids, rival.ID.String())
	assert.NotContains(t, ids, other.ID.String())
}

func TestFilterCandidatesAppliesCriteria(t *testing.T) {
	category := uuid.New()
	cheap := testProduct(category, "Cheap Case", 40, 3.0, 10)
	mid := testProduct(category, "Mid Case", 100, 4.5, 0)
	high := testProduct(category, "High Case", 200, 4.9, 2)

	svc := NewComparisonService(newStubLister(cheap, mid, high))

	minPrice, maxPrice := 50.0, 150.0
	candidates, err := svc.FilterCandidates(category, &CandidateFilterRequest{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, mid.ID.String(), candidates[0].ProductID)

	// In-stock filter drops the zero-quantity product
	candidates, err = svc.FilterCandidates(category, &CandidateFilterRequest{
		InStockOnly: true,
	})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	for _, entry := range candidates {
		assert.True(t, entry.InStock)
	}
}
