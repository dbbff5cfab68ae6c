package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
	"github.com/alfonso816/Tienda/pkg/slug"
)

// CreateCategoryInput holds the fields of a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Image       string
	Color       string
}

// CreateProductInput holds the fields of a new product.
type CreateProductInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	MediaURL    string
	MediaType   domain.MediaType
	Sizes       []string
}

// CatalogService implements catalog browsing and administration.
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *slog.Logger
	newID  func() string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger, newID: uuid.NewString}
}

// Catalog returns every category in order with its products.
func (s *CatalogService) Catalog(ctx context.Context) (*domain.Catalog, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	products, _, err := s.repo.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	c := domain.GroupProducts(categories, products)
	return &c, nil
}

// ListProducts returns one page of products, optionally within a category.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// GetProduct retrieves one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateCategory adds a category after the existing ones. Its id is the
// slug of its name.
func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	id := slug.Generate(name)
	if id == "" {
		return nil, apperrors.InvalidInput("category name must contain letters or digits")
	}

	existing, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	c := &domain.Category{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Image:       in.Image,
		Color:       in.Color,
		Order:       len(existing) + 1,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", c.ID),
		slog.Int("order", c.Order),
	)
	return c, nil
}

// DeleteCategory removes a category together with its products.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidInput("category id is required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))
	return nil
}

// CreateProduct adds a product to an existing category.
func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = domain.MediaImage
	}
	if !mediaType.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown media type %q", in.MediaType))
	}

	if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	p := &domain.Product{
		ID:          s.newID(),
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		MediaURL:    in.MediaURL,
		MediaType:   mediaType,
		Sizes:       domain.NormalizeSizes(in.Sizes),
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.String("category_id", p.CategoryID),
		slog.String("price", p.Price.StringFixed(2)),
	)
	return p, nil
}

// DeleteProduct removes a product. Carts keep their snapshot lines.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}
