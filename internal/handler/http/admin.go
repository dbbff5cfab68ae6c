package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alfonso816/Tienda/internal/media"
	"github.com/alfonso816/Tienda/internal/service"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
	"github.com/alfonso816/Tienda/pkg/httputil"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 64 << 10

// AdminHandler handles admin login and media uploads.
type AdminHandler struct {
	service *service.AdminService
	media   *media.Encoder
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.AdminService, enc *media.Encoder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: svc, media: enc, logger: logger}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.Login(r.Context(), req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// UploadMedia handles POST /api/v1/admin/media (multipart field "file").
// The response carries a data URL to store as a product's media_url.
func (h *AdminHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(h.media.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, apperrors.InvalidInput("file exceeds the upload limit"), h.logger)
			return
		}
		httputil.WriteError(w, r, apperrors.InvalidInput("expected a multipart form with a file field"), h.logger)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("file field is required"), h.logger)
		return
	}
	defer file.Close()

	enc, err := h.media.Encode(file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.logger.InfoContext(r.Context(), "media encoded",
		slog.String("mime", enc.MIME),
		slog.Int64("size", enc.Size),
	)
	httputil.WriteData(w, http.StatusCreated, enc)
}
