// Package postgres implements the catalog and settings repositories on
// PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	"github.com/alfonso816/Tienda/pkg/database"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

const categoryColumns = `id, name, description, img, color, sort_order`

const productColumns = `id, category_id, name, description, price::text, media_url, media_type, sizes`

// productRow mirrors productColumns; price arrives as text so NUMERIC keeps
// its exact value.
type productRow struct {
	id, categoryID, name, description string
	price, mediaURL, mediaType         string
	sizes                              []string
}

func (r *productRow) dest(extra ...any) []any {
	return append([]any{&r.id, &r.categoryID, &r.name, &r.description,
		&r.price, &r.mediaURL, &r.mediaType, &r.sizes}, extra...)
}

func (r *productRow) product() (*domain.Product, error) {
	price, err := decimal.NewFromString(r.price)
	if err != nil {
		return nil, fmt.Errorf("parse price of product %s: %w", r.id, err)
	}
	return &domain.Product{
		ID:          r.id,
		CategoryID:  r.categoryID,
		Name:        r.name,
		Description: r.description,
		Price:       price,
		MediaURL:    r.mediaURL,
		MediaType:   domain.MediaType(r.mediaType),
		Sizes:       r.sizes,
	}, nil
}

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	db   database.DBTX
	inst *database.Instrument
}

// NewCatalogRepository creates a PostgreSQL-backed catalog repository. inst
// may be nil.
func NewCatalogRepository(db database.DBTX, inst *database.Instrument) *CatalogRepository {
	return &CatalogRepository{db: db, inst: inst}
}

// ListCategories returns every category ordered by sort_order.
func (r *CatalogRepository) ListCategories(ctx context.Context) (_ []domain.Category, err error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, id`
	ctx, end := r.inst.Start(ctx, "ListCategories", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.Color, &c.Order); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by id.
func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (_ *domain.Category, err error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	ctx, end := r.inst.Start(ctx, "GetCategory", query)
	defer func() { end(err) }()

	var c domain.Category
	err = r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.Color, &c.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListProducts returns products matching filter, newest last, with the
// total count.
func (r *CatalogRepository) ListProducts(ctx context.Context, filter repository.ProductFilter) (_ []*domain.Product, _ int, err error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	page := ""
	if filter.PerPage > 0 {
		args = append(args, filter.Limit(), filter.Offset())
		page = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at, id
		%s`, productColumns, where, page)

	ctx, end := r.inst.Start(ctx, "ListProducts", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products = []*domain.Product{}
		total    int
	)
	for rows.Next() {
		var row productRow
		if err := rows.Scan(row.dest(&total)...); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		p, err := row.product()
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, total, nil
}

// GetProduct retrieves a product by id.
func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (_ *domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, end := r.inst.Start(ctx, "GetProduct", query)
	defer func() { end(err) }()

	var row productRow
	if err = r.db.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.product()
}

// CreateCategory inserts a new category.
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) (err error) {
	query := `
		INSERT INTO categories (id, name, description, img, color, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)`
	ctx, end := r.inst.Start(ctx, "CreateCategory", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query, c.ID, c.Name, c.Description, c.Image, c.Color, c.Order)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "id", c.ID)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category; its products go with it through the
// ON DELETE CASCADE foreign key.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) (err error) {
	query := `DELETE FROM categories WHERE id = $1`
	ctx, end := r.inst.Start(ctx, "DeleteCategory", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

// CreateProduct inserts a new product.
func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (id, category_id, name, description, price, media_url, media_type, sizes)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)`
	ctx, end := r.inst.Start(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	_, err = r.db.Exec(ctx, query, p.ID, p.CategoryID, p.Name, p.Description, p.Price.String(),
		p.MediaURL, string(p.MediaType), sizes)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperrors.AlreadyExists("product", "id", p.ID)
		case isForeignKeyViolation(err):
			return apperrors.NotFound("category", p.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product by id.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) (err error) {
	query := `DELETE FROM products WHERE id = $1`
	ctx, end := r.inst.Start(ctx, "DeleteProduct", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == "23505" }

func isForeignKeyViolation(err error) bool { return pgCode(err) == "23503" }
