// internal/comparison/comparison.go
package comparison

import (
	"errors"
	"math"
	"sort"
)

// PriceEpsilon is the tolerance used when marking best-price and best-rated
// entries. The comparison is strict: a difference of exactly PriceEpsilon does
// not count as equal.
const PriceEpsilon = 0.01

// sortLimit is the entry count below which the set is re-sorted ascending by
// price after every mutation. At sortLimit or more entries insertion order is
// kept as-is. Display behavior carried over from the storefront.
const sortLimit = 6

// ErrCategoryMismatch is returned by Add when the candidate belongs to a
// different category than the one the set is locked to. The set is left
// unchanged; callers surface this as a user-facing warning.
var ErrCategoryMismatch = errors.New("product belongs to a different category")

// Entry is the canonical comparison record. All source shapes (search results,
// persisted products) are normalized into this one type at the ingestion
// boundary.
type Entry struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	ImageURL    string  `json:"image_url,omitempty"`
	StoreName   string  `json:"store_name,omitempty"`
	Description string  `json:"description,omitempty"`
	CategoryID  string  `json:"category_id"`
	Price       float64 `json:"price"`
	AvgRating   float64 `json:"average_rating"`
	Quantity    int     `json:"quantity"`

	// Derived fields, recomputed on every set mutation.
	InStock                bool    `json:"in_stock"`
	PriceComparisonPercent float64 `json:"price_comparison_percent"`
	PriceDifference        float64 `json:"price_difference"`
	BestPrice              bool    `json:"best_price"`
	BestRated              bool    `json:"best_rated"`
}

// Set is a single-category collection of products under comparison. Entries
// keep their order (see sortLimit) and a membership index gives O(1) duplicate
// checks. A Set has exactly one owner; it is not safe for concurrent use.
type Set struct {
	categoryID string
	pinned     bool
	entries    []Entry
	members    map[string]struct{}
}

// NewSet returns an empty set whose category is established by the first
// entry added and cleared again when the set empties.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// NewSetForCategory returns an empty set locked to the given category. The
// lock survives the set emptying.
func NewSetForCategory(categoryID string) *Set {
	return &Set{
		categoryID: categoryID,
		pinned:     categoryID != "",
		members:    make(map[string]struct{}),
	}
}

// CategoryID reports the category the set is currently locked to, or "" when
// no category has been established.
func (s *Set) CategoryID() string { return s.categoryID }

// Len reports the number of entries in the set.
func (s *Set) Len() int { return len(s.entries) }

// Contains reports whether a product id is already a member.
func (s *Set) Contains(productID string) bool {
	_, ok := s.members[productID]
	return ok
}

// Entries returns a copy of the current entries in display order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add appends a normalized entry to the set. Adding an entry whose id is
// already a member is a no-op. Adding an entry from another category returns
// ErrCategoryMismatch without mutating the set; an empty unpinned set adopts
// the entry's category instead.
func (s *Set) Add(e Entry) error {
	if s.Contains(e.ProductID) {
		return nil
	}
	if s.categoryID != "" && e.CategoryID != s.categoryID {
		return ErrCategoryMismatch
	}
	if s.categoryID == "" {
		s.categoryID = e.CategoryID
	}
	s.entries = append(s.entries, e)
	s.members[e.ProductID] = struct{}{}
	s.recompute()
	return nil
}

// Remove drops the entry with the given product id, reporting whether it was
// a member. Emptying an unpinned set clears the category lock so the next Add
// establishes a fresh one.
func (s *Set) Remove(productID string) bool {
	if !s.Contains(productID) {
		return false
	}
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	delete(s.members, productID)
	if len(s.entries) == 0 && !s.pinned {
		s.categoryID = ""
	}
	s.recompute()
	return true
}

// recompute refreshes every derived field from the current membership and
// applies the small-set ordering policy.
func (s *Set) recompute() {
	if len(s.entries) == 0 {
		return
	}

	var sum float64
	minPrice := math.Inf(1)
	maxRating := 0.0
	for i := range s.entries {
		e := &s.entries[i]
		sum += e.Price
		if e.Price < minPrice {
			minPrice = e.Price
		}
		if e.AvgRating > maxRating {
			maxRating = e.AvgRating
		}
	}
	mean := sum / float64(len(s.entries))

	for i := range s.entries {
		e := &s.entries[i]
		e.InStock = e.Quantity > 0
		if mean > 0 {
			e.PriceComparisonPercent = (e.Price - mean) / mean * 100
		} else {
			e.PriceComparisonPercent = 0
		}
		e.PriceDifference = e.Price - mean
		e.BestPrice = math.Abs(e.Price-minPrice) < PriceEpsilon
		e.BestRated = math.Abs(e.AvgRating-maxRating) < PriceEpsilon && maxRating > 0
	}

	if len(s.entries) < sortLimit {
		sort.SliceStable(s.entries, func(i, j int) bool {
			return s.entries[i].Price < s.entries[j].Price
		})
	}
}
