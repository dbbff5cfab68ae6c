package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
	"github.com/alfonso816/Tienda/pkg/pagination"
)

func newTestCatalogService(repo *mockCatalogRepository) *CatalogService {
	svc := NewCatalogService(repo, newTestLogger())
	svc.newID = func() string { return "prod-1" }
	return svc
}

func TestCatalog_GroupsProducts(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	categories := []domain.Category{{ID: "vestidos", Order: 1}, {ID: "bolsos", Order: 2}}
	products := []*domain.Product{dress()}
	repo.On("ListCategories", ctx).Return(categories, nil)
	repo.On("ListProducts", ctx, repository.ProductFilter{}).Return(products, 1, nil)

	c, err := svc.Catalog(ctx)

	require.NoError(t, err)
	assert.Equal(t, categories, c.Categories)
	assert.Len(t, c.Products["vestidos"], 1)
	assert.Empty(t, c.Products["bolsos"])
	repo.AssertExpectations(t)
}

func TestListProducts(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	filter := repository.ProductFilter{CategoryID: "vestidos", Params: pagination.Params{Page: 2, PerPage: 10}}
	repo.On("ListProducts", ctx, filter).Return([]*domain.Product{dress()}, 11, nil)

	got, total, err := svc.ListProducts(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 11, total)
	repo.AssertExpectations(t)
}

func TestGetProduct(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetProduct", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.GetProduct(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestCreateCategory(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("ListCategories", ctx).Return([]domain.Category{{ID: "vestidos"}, {ID: "blusas"}}, nil)
	repo.On("CreateCategory", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

	c, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "  Lencería Fina ", Color: "#ff69b4"})

	require.NoError(t, err)
	assert.Equal(t, "lenceria-fina", c.ID)
	assert.Equal(t, "Lencería Fina", c.Name)
	assert.Equal(t, 3, c.Order)
	assert.Equal(t, "#ff69b4", c.Color)
	repo.AssertExpectations(t)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("ListCategories", ctx).Return([]domain.Category{{ID: "vestidos"}}, nil)
	repo.On("CreateCategory", ctx, mock.Anything).Return(apperrors.AlreadyExists("category", "id", "vestidos"))

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Vestidos"})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCreateCategory_NameWithoutLetters(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: " ¿¡! "})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "ListCategories", mock.Anything)
}

func TestDeleteCategory(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("DeleteCategory", ctx, "vestidos").Return(nil)
	repo.On("DeleteCategory", ctx, "nope").Return(apperrors.NotFound("category", "nope"))

	require.NoError(t, svc.DeleteCategory(ctx, "vestidos"))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, "nope"), apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, ""), apperrors.ErrInvalidInput)
}

func TestCreateProduct(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetCategory", ctx, "vestidos").Return(&domain.Category{ID: "vestidos"}, nil)
	repo.On("CreateProduct", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	p, err := svc.CreateProduct(ctx, CreateProductInput{
		CategoryID: "vestidos",
		Name:       " Vestido Noche ",
		Price:      decimal.RequireFromString("89.90"),
		Sizes:      []string{" S", "M", "", "M"},
	})

	require.NoError(t, err)
	assert.Equal(t, "prod-1", p.ID)
	assert.Equal(t, "Vestido Noche", p.Name)
	assert.Equal(t, domain.MediaImage, p.MediaType)
	assert.Equal(t, []string{"S", "M"}, p.Sizes)
	assert.Equal(t, "89.9", p.Price.String())
	repo.AssertExpectations(t)
}

func TestCreateProduct_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   CreateProductInput
	}{
		{"blank name", CreateProductInput{CategoryID: "vestidos", Name: " "}},
		{"negative price", CreateProductInput{CategoryID: "vestidos", Name: "x", Price: decimal.NewFromInt(-1)}},
		{"bad media type", CreateProductInput{CategoryID: "vestidos", Name: "x", MediaType: "audio"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockCatalogRepository)
			svc := newTestCatalogService(repo)

			_, err := svc.CreateProduct(context.Background(), tt.in)

			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetCategory", ctx, "nope").Return(nil, apperrors.NotFound("category", "nope"))

	_, err := svc.CreateProduct(ctx, CreateProductInput{CategoryID: "nope", Name: "x", MediaType: domain.MediaVideo})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("DeleteProduct", ctx, "prod-1").Return(nil)

	require.NoError(t, svc.DeleteProduct(ctx, "prod-1"))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, " "), apperrors.ErrInvalidInput)
	repo.AssertExpectations(t)
}
