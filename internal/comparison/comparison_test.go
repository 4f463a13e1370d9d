// internal/comparison/comparison_test.go
package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, category string, price, rating float64, qty int) Entry {
	return Entry{
		ProductID:   id,
		ProductName: "product " + id,
		CategoryID:  category,
		Price:       price,
		AvgRating:   rating,
		Quantity:    qty,
	}
}

func findEntry(t *testing.T, s *Set, id string) Entry {
	t.Helper()
	for _, e := range s.Entries() {
		if e.ProductID == id {
			return e
		}
	}
	t.Fatalf("entry %s not in set", id)
	return Entry{}
}

func TestAddEstablishesCategory(t *testing.T) {
	s := NewSet()
	assert.Equal(t, "", s.CategoryID())

	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))
	assert.Equal(t, "phones", s.CategoryID())
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains("p1"))
}

func TestAddCategoryMismatchLeavesSetUnchanged(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))

	err := s.Add(entry("p2", "laptops", 900, 5, 1))
	assert.ErrorIs(t, err, ErrCategoryMismatch)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Contains("p2"))
	assert.Equal(t, "phones", s.CategoryID())
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))
	require.NoError(t, s.Add(entry("p2", "phones", 200, 5, 1)))

	before := s.Entries()
	require.NoError(t, s.Add(entry("p1", "phones", 999, 1, 0)))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, before, s.Entries())
}

func TestRemoveLastEntryClearsCategory(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))
	assert.True(t, s.Remove("p1"))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.CategoryID())

	// A fresh category can now be established.
	require.NoError(t, s.Add(entry("p2", "laptops", 900, 5, 1)))
	assert.Equal(t, "laptops", s.CategoryID())
}

func TestPinnedSetKeepsCategoryWhenEmptied(t *testing.T) {
	s := NewSetForCategory("phones")
	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))
	assert.True(t, s.Remove("p1"))
	assert.Equal(t, "phones", s.CategoryID())

	assert.ErrorIs(t, s.Add(entry("p2", "laptops", 900, 5, 1)), ErrCategoryMismatch)
}

func TestRemoveUnknownID(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("p1", "phones", 100, 4, 3)))
	assert.False(t, s.Remove("missing"))
	assert.Equal(t, 1, s.Len())
}

func TestRankingsTwoEntries(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("1", "phones", 100, 4, 5)))
	require.NoError(t, s.Add(entry("2", "phones", 200, 5, 5)))

	e1 := findEntry(t, s, "1")
	e2 := findEntry(t, s, "2")

	// mean = 150
	assert.InDelta(t, -33.33, e1.PriceComparisonPercent, 0.01)
	assert.InDelta(t, 33.33, e2.PriceComparisonPercent, 0.01)
	assert.InDelta(t, -50, e1.PriceDifference, 1e-9)
	assert.InDelta(t, 50, e2.PriceDifference, 1e-9)

	assert.True(t, e1.BestPrice)
	assert.False(t, e2.BestPrice)
	assert.False(t, e1.BestRated)
	assert.True(t, e2.BestRated)
}

func TestMeanRecomputationIsExact(t *testing.T) {
	s := NewSet()
	prices := []float64{19.99, 42, 7.5, 100}
	for i, p := range prices {
		require.NoError(t, s.Add(entry(string(rune('a'+i)), "books", p, 0, 1)))
	}

	var sum, mean float64
	for _, p := range prices {
		sum += p
	}
	mean = sum / float64(len(prices))

	// Reconstructing each price from its deviation yields count*mean total.
	var reconstructed float64
	for _, e := range s.Entries() {
		reconstructed += mean * (1 + e.PriceComparisonPercent/100)
	}
	assert.InDelta(t, float64(len(prices))*mean, reconstructed, 1e-6)
}

func TestBestPriceMarksMinimum(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 300, 3, 1)))
	require.NoError(t, s.Add(entry("b", "phones", 150, 4, 1)))
	require.NoError(t, s.Add(entry("c", "phones", 225, 5, 1)))

	var best []Entry
	for _, e := range s.Entries() {
		if e.BestPrice {
			best = append(best, e)
		}
	}
	require.Len(t, best, 1)
	assert.Equal(t, "b", best[0].ProductID)
	assert.Equal(t, 150.0, best[0].Price)
}

func TestBestRatedNeverTrueForAllZeroRatings(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 100, 0, 1)))
	require.NoError(t, s.Add(entry("b", "phones", 200, 0, 1)))

	for _, e := range s.Entries() {
		assert.False(t, e.BestRated)
	}
}

func TestEpsilonBoundaryIsStrict(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 100.00, 4, 1)))
	// Exactly one epsilon above the minimum: must not count as best price.
	require.NoError(t, s.Add(entry("b", "phones", 100.01, 4, 1)))
	// Inside the tolerance: counts as best price too.
	require.NoError(t, s.Add(entry("c", "phones", 100.005, 4, 1)))

	assert.True(t, findEntry(t, s, "a").BestPrice)
	assert.False(t, findEntry(t, s, "b").BestPrice)
	assert.True(t, findEntry(t, s, "c").BestPrice)
}

func TestSmallSetSortedAscendingByPrice(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 500, 0, 1)))
	require.NoError(t, s.Add(entry("b", "phones", 100, 0, 1)))
	require.NoError(t, s.Add(entry("c", "phones", 300, 0, 1)))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{
		entries[0].ProductID, entries[1].ProductID, entries[2].ProductID,
	})
}

func TestSortIsStableOnEqualPrices(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("first", "phones", 100, 0, 1)))
	require.NoError(t, s.Add(entry("second", "phones", 100, 0, 1)))

	entries := s.Entries()
	assert.Equal(t, "first", entries[0].ProductID)
	assert.Equal(t, "second", entries[1].ProductID)
}

func TestLargeSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet()
	ids := []string{"f", "e", "d", "c", "b", "a"}
	prices := []float64{600, 500, 400, 300, 200, 100}
	for i, id := range ids {
		require.NoError(t, s.Add(entry(id, "phones", prices[i], 0, 1)))
	}

	entries := s.Entries()
	require.Len(t, entries, 6)
	// At six entries the descending-price insertion order survives. Note the
	// first five adds were each re-sorted, so the preserved order is the
	// sorted-five plus the sixth appended.
	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.ProductID
	}
	assert.Equal(t, []string{"b", "c", "d", "e", "f", "a"}, got)
}

func TestInStockDerivedFromQuantity(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 100, 0, 0)))
	require.NoError(t, s.Add(entry("b", "phones", 200, 0, 7)))

	assert.False(t, findEntry(t, s, "a").InStock)
	assert.True(t, findEntry(t, s, "b").InStock)
}

func TestZeroMeanPriceYieldsZeroPercent(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "freebies", 0, 0, 1)))
	require.NoError(t, s.Add(entry("b", "freebies", 0, 0, 1)))

	for _, e := range s.Entries() {
		assert.Equal(t, 0.0, e.PriceComparisonPercent)
		assert.Equal(t, 0.0, e.PriceDifference)
	}
}

func TestRankingsRecomputedAfterRemove(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(entry("a", "phones", 100, 3, 1)))
	require.NoError(t, s.Add(entry("b", "phones", 200, 4, 1)))
	require.NoError(t, s.Add(entry("c", "phones", 300, 5, 1)))

	require.True(t, s.Remove("a"))

	e2 := findEntry(t, s, "b")
	// mean is now 250
	assert.InDelta(t, -20, e2.PriceComparisonPercent, 0.01)
	assert.True(t, e2.BestPrice)
	assert.False(t, e2.BestRated)
	assert.True(t, findEntry(t, s, "c").BestRated)
}
