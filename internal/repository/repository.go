// Package repository declares the persistence contracts of the storefront.
// Implementations live in the postgres, rest, redis and memory subpackages.
package repository

import (
	"context"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/pkg/pagination"
)

// ProductFilter narrows a product listing. An empty CategoryID lists every
// category.
type ProductFilter struct {
	CategoryID string
	pagination.Params
}

// CatalogRepository stores categories and products.
type CatalogRepository interface {
	// ListCategories returns every category ordered by Order.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// GetCategory retrieves one category.
	GetCategory(ctx context.Context, id string) (*domain.Category, error)

	// ListProducts returns one page of products and the total match count.
	// A zero PerPage returns every match.
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)

	// GetProduct retrieves one product.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// CreateCategory inserts a category. A duplicate id is ErrAlreadyExists.
	CreateCategory(ctx context.Context, c *domain.Category) error

	// DeleteCategory removes a category and all of its products.
	DeleteCategory(ctx context.Context, id string) error

	// CreateProduct inserts a product.
	CreateProduct(ctx context.Context, p *domain.Product) error

	// DeleteProduct removes a product.
	DeleteProduct(ctx context.Context, id string) error
}

// SettingsRepository stores the single site configuration record.
type SettingsRepository interface {
	// Get returns the stored settings or ErrNotFound when none were saved.
	Get(ctx context.Context) (*domain.Settings, error)

	// Update replaces the stored settings, creating the record if needed.
	Update(ctx context.Context, s domain.Settings) error
}

// CartRepository stores carts keyed by session id.
type CartRepository interface {
	// Get retrieves a cart. A missing or expired cart is ErrNotFound.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion stores cart only if the stored version still equals
	// expected (0 for a cart not stored yet), then sets cart.Version to
	// expected+1. A lost race is ErrConflict.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int) error

	// Delete removes a cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, sessionID string) error
}
