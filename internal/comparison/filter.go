// internal/comparison/filter.go
package comparison

import "strings"

// Criteria narrows a candidate pool. Zero values impose no constraint: an
// empty SearchTerm matches everything and nil bounds are unbounded. Price and
// rating bounds are inclusive.
type Criteria struct {
	SearchTerm  string   `json:"search_term,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	InStockOnly bool     `json:"in_stock_only,omitempty"`
}

// Filter returns the entries of pool that satisfy every criterion. When
// categoryID is non-empty the pool is scoped to that category first. An empty
// pool yields an empty result.
func Filter(pool []Entry, categoryID string, c Criteria) []Entry {
	out := make([]Entry, 0, len(pool))
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))
	for _, e := range pool {
		if categoryID != "" && e.CategoryID != categoryID {
			continue
		}
		if term != "" && !matchesTerm(e, term) {
			continue
		}
		if c.MinPrice != nil && e.Price < *c.MinPrice {
			continue
		}
		if c.MaxPrice != nil && e.Price > *c.MaxPrice {
			continue
		}
		if c.MinRating != nil && e.AvgRating < *c.MinRating {
			continue
		}
		if c.InStockOnly && e.Quantity <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterCandidates scopes pool to the set's category context before applying
// the criteria. The context is the established category, falling back to the
// first entry's category; with no context at all the category filter is
// skipped.
func (s *Set) FilterCandidates(pool []Entry, c Criteria) []Entry {
	categoryID := s.categoryID
	if categoryID == "" && len(s.entries) > 0 {
		categoryID = s.entries[0].CategoryID
	}
	return Filter(pool, categoryID, c)
}

func matchesTerm(e Entry, term string) bool {
	return strings.Contains(strings.ToLower(e.ProductName), term) ||
		strings.Contains(strings.ToLower(e.Description), term) ||
		strings.Contains(strings.ToLower(e.StoreName), term)
}
