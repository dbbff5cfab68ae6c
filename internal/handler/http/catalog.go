package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	"github.com/alfonso816/Tienda/internal/service"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
	"github.com/alfonso816/Tienda/pkg/httputil"
	"github.com/alfonso816/Tienda/pkg/pagination"
)

// CatalogHandler handles HTTP requests for categories and products.
type CatalogHandler struct {
	service      *service.CatalogService
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewCatalogHandler creates a new catalog HTTP handler. maxBodyBytes bounds
// admin bodies, which may embed media as data URLs.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger, maxBodyBytes int64) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Catalog(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// ListProducts handles GET /api/v1/products?category=&page=&per_page=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		CategoryID: strings.TrimSpace(r.URL.Query().Get("category")),
		Params:     pagination.FromRequest(r),
	}
	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, httputil.NewPage(products, total, filter.Page, filter.PerPage))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}

// CreateCategory handles POST /api/v1/admin/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := httputil.DecodeJSONLimit(r, &req, h.maxBodyBytes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	c, err := h.service.CreateCategory(r.Context(), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Color:       req.Color,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, c)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), pathParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateProduct handles POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httputil.DecodeJSONLimit(r, &req, h.maxBodyBytes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("price must be a decimal number"), h.logger)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), service.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		MediaURL:    req.MediaURL,
		MediaType:   domain.MediaType(req.MediaType),
		Sizes:       req.Sizes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, p)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), pathParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
