package http

import (
	"log/slog"
	"net/http"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/service"
	"github.com/alfonso816/Tienda/pkg/httputil"
)

// SettingsHandler serves the site configuration.
type SettingsHandler struct {
	service      *service.SettingsService
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewSettingsHandler creates a new settings HTTP handler.
func NewSettingsHandler(svc *service.SettingsService, logger *slog.Logger, maxBodyBytes int64) *SettingsHandler {
	return &SettingsHandler{service: svc, logger: logger, maxBodyBytes: maxBodyBytes}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}

// UpdateSettings handles PUT /api/v1/admin/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := httputil.DecodeJSONLimit(r, &req, h.maxBodyBytes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	s, err := h.service.Update(r.Context(), domain.Settings{
		Name:            req.Name,
		Title:           req.Title,
		PrimaryColor:    req.PrimaryColor,
		WhatsApp:        req.WhatsApp,
		Logo:            req.Logo,
		HeroTitle:       req.HeroTitle,
		HeroDescription: req.HeroDescription,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}
