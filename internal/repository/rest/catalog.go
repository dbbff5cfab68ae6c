package rest

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

type categoryRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Img         string `json:"img"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
}

func (r categoryRow) category() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name, Description: r.Description, Image: r.Img, Color: r.Color, Order: r.Order}
}

type productRow struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MediaURL    string          `json:"media_url"`
	MediaType   string          `json:"media_type"`
	Sizes       []string        `json:"sizes"`
}

func (r productRow) product() *domain.Product {
	sizes := r.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return &domain.Product{
		ID:          r.ID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		MediaURL:    r.MediaURL,
		MediaType:   domain.MediaType(r.MediaType),
		Sizes:       sizes,
	}
}

// CatalogRepository implements repository.CatalogRepository over PostgREST.
type CatalogRepository struct {
	c *Client
}

// NewCatalogRepository creates a REST-backed catalog repository.
func NewCatalogRepository(c *Client) *CatalogRepository {
	return &CatalogRepository{c: c}
}

// ListCategories returns categories ordered by their "order" column.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.c.get(ctx, "categories", url.Values{"select": {"*"}, "order": {"order.asc,id.asc"}}, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.category())
	}
	return out, nil
}

// GetCategory retrieves one category.
func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var rows []categoryRow
	if err := r.c.get(ctx, "categories", url.Values{"select": {"*"}, "id": {eq(id)}}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("category", id)
	}
	c := rows[0].category()
	return &c, nil
}

// ListProducts returns one page of products with the exact total.
func (r *CatalogRepository) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	q := url.Values{"select": {"*"}, "order": {"id.asc"}}
	if filter.CategoryID != "" {
		q.Set("category_id", eq(filter.CategoryID))
	}
	if filter.PerPage > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit()))
		q.Set("offset", strconv.Itoa(filter.Offset()))
	}
	var rows []productRow
	total, err := r.c.getCounted(ctx, "products", q, &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, total, nil
}

// GetProduct retrieves one product.
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var rows []productRow
	if err := r.c.get(ctx, "products", url.Values{"select": {"*"}, "id": {eq(id)}}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("product", id)
	}
	return rows[0].product(), nil
}

// CreateCategory inserts a category row.
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.c.insert(ctx, "categories", categoryRow{
		ID: c.ID, Name: c.Name, Description: c.Description, Img: c.Image, Color: c.Color, Order: c.Order,
	})
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.AlreadyExists("category", "id", c.ID)
	}
	return err
}

// DeleteCategory removes the category's products, then the category.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	if _, err := r.c.delete(ctx, "products", url.Values{"category_id": {eq(id)}}); err != nil {
		return err
	}
	n, err := r.c.delete(ctx, "categories", url.Values{"id": {eq(id)}})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

// CreateProduct inserts a product row.
func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	err := r.c.insert(ctx, "products", productRow{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		MediaURL:    p.MediaURL,
		MediaType:   string(p.MediaType),
		Sizes:       sizes,
	})
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.AlreadyExists("product", "id", p.ID)
	}
	return err
}

// DeleteProduct removes a product.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	n, err := r.c.delete(ctx, "products", url.Values{"id": {eq(id)}})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}
