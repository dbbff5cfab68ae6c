package http

import (
	"log/slog"
	"net/http"

	"github.com/alfonso816/Tienda/internal/service"
	"github.com/alfonso816/Tienda/pkg/httputil"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CartResponse{Cart: toCartView(cart)})
}

// AddLine handles POST /api/v1/cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, change, err := h.service.AddItem(r.Context(), sessionIDFromContext(r.Context()), req.ProductID, req.Size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CartResponse{Cart: toCartView(cart), Change: change})
}

// UpdateLine handles PATCH /api/v1/cart/lines/{itemId}/{size}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req UpdateLineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, change, err := h.service.UpdateQuantity(r.Context(), sessionIDFromContext(r.Context()),
		pathParam(r, "itemId"), pathParam(r, "size"), req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CartResponse{Cart: toCartView(cart), Change: change})
}

// RemoveLine handles DELETE /api/v1/cart/lines/{itemId}/{size}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cart, change, err := h.service.RemoveLine(r.Context(), sessionIDFromContext(r.Context()),
		pathParam(r, "itemId"), pathParam(r, "size"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CartResponse{Cart: toCartView(cart), Change: change})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.ClearCart(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, CartResponse{Cart: toCartView(cart)})
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Checkout(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toCheckoutResponse(res))
}
