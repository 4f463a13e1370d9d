// internal/comparison/filter_test.go
package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestFilterPriceBounds(t *testing.T) {
	pool := []Entry{
		entry("a", "phones", 40, 0, 1),
		entry("b", "phones", 100, 0, 1),
		entry("c", "phones", 200, 0, 1),
	}

	got := Filter(pool, "", Criteria{MinPrice: f64(50), MaxPrice: f64(150)})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ProductID)
}

func TestFilterPriceBoundsInclusive(t *testing.T) {
	pool := []Entry{
		entry("lo", "phones", 50, 0, 1),
		entry("hi", "phones", 150, 0, 1),
	}
	got := Filter(pool, "", Criteria{MinPrice: f64(50), MaxPrice: f64(150)})
	assert.Len(t, got, 2)
}

func TestFilterSearchTermCaseInsensitive(t *testing.T) {
	pool := []Entry{
		{ProductID: "a", ProductName: "Galaxy S24", CategoryID: "phones", Quantity: 1},
		{ProductID: "b", ProductName: "Pixel 9", Description: "the galaxy killer", CategoryID: "phones", Quantity: 1},
		{ProductID: "c", ProductName: "iPhone 16", StoreName: "Galaxy Store", CategoryID: "phones", Quantity: 1},
		{ProductID: "d", ProductName: "Xperia", CategoryID: "phones", Quantity: 1},
	}

	got := Filter(pool, "", Criteria{SearchTerm: "GALAXY"})
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ProductID
	}
	// Name, description, and store name are all searched.
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestFilterEmptyCriteriaMatchesEverything(t *testing.T) {
	pool := []Entry{
		entry("a", "phones", 40, 0, 0),
		entry("b", "phones", 100, 3, 1),
	}
	got := Filter(pool, "", Criteria{})
	assert.Len(t, got, 2)
}

func TestFilterMinRatingInclusive(t *testing.T) {
	pool := []Entry{
		entry("a", "phones", 10, 3.9, 1),
		entry("b", "phones", 10, 4.0, 1),
		entry("c", "phones", 10, 4.5, 1),
	}
	got := Filter(pool, "", Criteria{MinRating: f64(4.0)})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ProductID)
	assert.Equal(t, "c", got[1].ProductID)
}

func TestFilterInStockOnly(t *testing.T) {
	pool := []Entry{
		entry("a", "phones", 10, 0, 0),
		entry("b", "phones", 10, 0, 2),
	}
	got := Filter(pool, "", Criteria{InStockOnly: true})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ProductID)
}

func TestFilterCategoryScopingAppliedFirst(t *testing.T) {
	pool := []Entry{
		entry("a", "phones", 10, 0, 1),
		entry("b", "laptops", 10, 0, 1),
	}
	got := Filter(pool, "phones", Criteria{})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ProductID)
}

func TestFilterEmptyPool(t *testing.T) {
	got := Filter(nil, "phones", Criteria{SearchTerm: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterCandidatesUsesSetCategory(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("owned", "phones", 100, 0, 1)))

	pool := []Entry{
		entry("a", "phones", 10, 0, 1),
		entry("b", "laptops", 10, 0, 1),
	}
	got := s.FilterCandidates(pool, Criteria{})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ProductID)
}

func TestFilterCandidatesNoCategoryContext(t *testing.T) {
	s := NewSet()
	pool := []Entry{
		entry("a", "phones", 10, 0, 1),
		entry("b", "laptops", 10, 0, 1),
	}
	// No category established: no category filter is applied.
	got := s.FilterCandidates(pool, Criteria{})
	assert.Len(t, got, 2)
}

func TestFilterCombinedCriteria(t *testing.T) {
	pool := []Entry{
		{ProductID: "match", ProductName: "Budget Phone", CategoryID: "phones", Price: 120, AvgRating: 4.2, Quantity: 3},
		{ProductID: "pricey", ProductName: "Budget Phone Pro", CategoryID: "phones", Price: 900, AvgRating: 4.8, Quantity: 3},
		{ProductID: "oos", ProductName: "Budget Phone Lite", CategoryID: "phones", Price: 110, AvgRating: 4.1, Quantity: 0},
		{ProductID: "lowrated", ProductName: "Budget Phone Mini", CategoryID: "phones", Price: 100, AvgRating: 2.0, Quantity: 5},
	}
	got := Filter(pool, "phones", Criteria{
		SearchTerm:  "budget",
		MinPrice:    f64(50),
		MaxPrice:    f64(500),
		MinRating:   f64(4.0),
		InStockOnly: true,
	})
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ProductID)
}
