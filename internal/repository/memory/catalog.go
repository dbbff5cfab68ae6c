// Package memory keeps the catalog, settings and carts in process memory.
// It backs local development and tests; nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// CatalogRepository implements repository.CatalogRepository in memory.
type CatalogRepository struct {
	mu         sync.RWMutex
	categories []domain.Category
	products   []*domain.Product
}

// NewCatalogRepository returns a store holding copies of the given
// categories and products.
func NewCatalogRepository(categories []domain.Category, products []*domain.Product) *CatalogRepository {
	r := &CatalogRepository{categories: slices.Clone(categories)}
	for _, p := range products {
		r.products = append(r.products, cloneProduct(p))
	}
	return r
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	c.Sizes = slices.Clone(p.Sizes)
	return &c
}

// ListCategories returns categories sorted by Order, ties by id.
func (r *CatalogRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.categories)
	if out == nil {
		out = []domain.Category{}
	}
	slices.SortStableFunc(out, func(a, b domain.Category) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

// GetCategory retrieves a category by id.
func (r *CatalogRepository) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.categories, func(c domain.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, apperrors.NotFound("category", id)
	}
	c := r.categories[i]
	return &c, nil
}

// ListProducts returns products in insertion order.
func (r *CatalogRepository) ListProducts(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := []*domain.Product{}
	for _, p := range r.products {
		if filter.CategoryID == "" || p.CategoryID == filter.CategoryID {
			matched = append(matched, cloneProduct(p))
		}
	}
	total := len(matched)
	if filter.PerPage > 0 {
		lo, hi := filter.Slice(total)
		matched = matched[lo:hi]
	}
	return matched, total, nil
}

// GetProduct retrieves a product by id.
func (r *CatalogRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return cloneProduct(p), nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

// CreateCategory appends a category.
func (r *CatalogRepository) CreateCategory(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.ContainsFunc(r.categories, func(x domain.Category) bool { return x.ID == c.ID }) {
		return apperrors.AlreadyExists("category", "id", c.ID)
	}
	r.categories = append(r.categories, *c)
	return nil
}

// DeleteCategory removes a category and its products.
func (r *CatalogRepository) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.categories)
	r.categories = slices.DeleteFunc(r.categories, func(c domain.Category) bool { return c.ID == id })
	if len(r.categories) == n {
		return apperrors.NotFound("category", id)
	}
	r.products = slices.DeleteFunc(r.products, func(p *domain.Product) bool { return p.CategoryID == id })
	return nil
}

// CreateProduct appends a product to an existing category.
func (r *CatalogRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.ContainsFunc(r.categories, func(c domain.Category) bool { return c.ID == p.CategoryID }) {
		return apperrors.NotFound("category", p.CategoryID)
	}
	if slices.ContainsFunc(r.products, func(x *domain.Product) bool { return x.ID == p.ID }) {
		return apperrors.AlreadyExists("product", "id", p.ID)
	}
	r.products = append(r.products, cloneProduct(p))
	return nil
}

// DeleteProduct removes a product by id.
func (r *CatalogRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.products)
	r.products = slices.DeleteFunc(r.products, func(p *domain.Product) bool { return p.ID == id })
	if len(r.products) == n {
		return apperrors.NotFound("product", id)
	}
	return nil
}
