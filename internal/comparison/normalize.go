// internal/comparison/normalize.go
package comparison

import (
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
)

// FromProduct normalizes a catalog product into the canonical comparison
// entry. This is the single ingestion boundary: whatever shape the catalog
// hands back, comparison logic only ever sees an Entry.
func FromProduct(p models.Product) Entry {
	return Entry{
		ProductID:   p.ID.String(),
		ProductName: p.Name,
		ImageURL:    p.FirstImage(),
		StoreName:   p.Store.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID.String(),
		Price:       p.Price,
		AvgRating:   p.AverageRating,
		Quantity:    p.Quantity,
		InStock:     p.InStock(),
	}
}

// FromProducts normalizes a fetched product list into a candidate pool.
func FromProducts(products []models.Product) []Entry {
	pool := make([]Entry, 0, len(products))
	for _, p := range products {
		pool = append(pool, FromProduct(p))
	}
	return pool
}
