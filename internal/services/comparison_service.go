// internal/services/comparison_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nhtrieuvy/ecommerce-api/internal/comparison"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
)

// ProductLister is the slice of ProductService the comparison flows need.
// Keeping it narrow lets handler tests run against an in-memory pool.
type ProductLister interface {
	ListByCategory(categoryID uuid.UUID, limit int) ([]models.Product, error)
	GetProduct(id uuid.UUID, viewerID *uuid.UUID) (*models.Product, error)
}

type ComparisonService struct {
	products ProductLister
}

type ComparisonRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" validate:"required,min=1,max=20"`
}

type ComparisonResult struct {
	CategoryID string             `json:"category_id,omitempty"`
	Entries    []comparison.Entry `json:"entries"`
}

type CandidateFilterRequest struct {
	SearchTerm  string   `json:"search_term,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	InStockOnly bool     `json:"in_stock_only,omitempty"`
}

func NewComparisonService(products ProductLister) *ComparisonService {
	return &ComparisonService{products: products}
}

// BuildComparison resolves the requested products and assembles them into a
// ranked comparison set. The first product establishes the category; any
// product from another category aborts the whole request.
func (s *ComparisonService) BuildComparison(productIDs []uuid.UUID) (*ComparisonResult, error) {
	if len(productIDs) == 0 {
		return nil, errors.New("no products to compare")
	}

	set := comparison.NewSet()
	for _, id := range productIDs {
		product, err := s.products.GetProduct(id, nil)
		if err != nil {
			return nil, err
		}
		if err := set.Add(comparison.FromProduct(*product)); err != nil {
			return nil, err
		}
	}

	return &ComparisonResult{
		CategoryID: set.CategoryID(),
		Entries:    set.Entries(),
	}, nil
}

// CompareCategory builds a comparison across the best-selling products of a
// category.
func (s *ComparisonService) CompareCategory(categoryID uuid.UUID, limit int) (*ComparisonResult, error) {
	products, err := s.products.ListByCategory(categoryID, limit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.New("category has no products to compare")
	}

	set := comparison.NewSetForCategory(categoryID.String())
	for _, product := range products {
		if err := set.Add(comparison.FromProduct(product)); err != nil {
			return nil, fmt.Errorf("failed to build comparison: %w", err)
		}
	}

	return &ComparisonResult{
		CategoryID: set.CategoryID(),
		Entries:    set.Entries(),
	}, nil
}

// ComparableProducts returns products from the anchor's category ranked
// against it. The anchor is added first, but small sets re-sort ascending
// by price, so its final position depends on where its price falls.
func (s *ComparisonService) ComparableProducts(anchorID uuid.UUID, limit int) (*ComparisonResult, error) {
	anchor, err := s.products.GetProduct(anchorID, nil)
	if err != nil {
		return nil, err
	}

	pool, err := s.products.ListByCategory(anchor.CategoryID, limit)
	if err != nil {
		return nil, err
	}

	set := comparison.NewSetForCategory(anchor.CategoryID.String())
	if err := set.Add(comparison.FromProduct(*anchor)); err != nil {
		return nil, err
	}
	for _, product := range pool {
		if product.ID == anchor.ID {
			continue
		}
		if err := set.Add(comparison.FromProduct(product)); err != nil {
			return nil, fmt.Errorf("failed to build comparison: %w", err)
		}
	}

	return &ComparisonResult{
		CategoryID: set.CategoryID(),
		Entries:    set.Entries(),
	}, nil
}

// FilterCandidates narrows a category's candidate pool with the caller's
// criteria, for picking additional products to compare.
func (s *ComparisonService) FilterCandidates(categoryID uuid.UUID, req *CandidateFilterRequest) ([]comparison.Entry, error) {
	products, err := s.products.ListByCategory(categoryID, 0)
	if err != nil {
		return nil, err
	}

	criteria := comparison.Criteria{
		SearchTerm:  req.SearchTerm,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		MinRating:   req.MinRating,
		InStockOnly: req.InStockOnly,
	}

	return comparison.Filter(comparison.FromProducts(products), categoryID.String(), criteria), nil
}
