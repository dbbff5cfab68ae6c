// Package media turns uploaded product media into data URLs stored inline
// with the product.
package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// DefaultMaxBytes is the upload limit used when none is configured (5 MB).
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// allowedTypes maps accepted MIME types to how the storefront renders them.
var allowedTypes = map[string]domain.MediaType{
	"image/jpeg":      domain.MediaImage,
	"image/png":       domain.MediaImage,
	"image/webp":      domain.MediaImage,
	"image/gif":       domain.MediaImage,
	"video/mp4":       domain.MediaVideo,
	"video/webm":      domain.MediaVideo,
	"video/quicktime": domain.MediaVideo,
}

// Encoded is an upload ready to be saved as a product's media.
type Encoded struct {
	URL       string           `json:"media_url"`
	MediaType domain.MediaType `json:"media_type"`
	MIME      string           `json:"mime"`
	Size      int64            `json:"size"`
}

// Encoder sniffs and encodes uploads.
type Encoder struct {
	maxBytes int64
}

// NewEncoder returns an encoder rejecting uploads over maxBytes. A
// non-positive limit means DefaultMaxBytes.
func NewEncoder(maxBytes int64) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{maxBytes: maxBytes}
}

// MaxBytes is the configured upload limit.
func (e *Encoder) MaxBytes() int64 { return e.maxBytes }

// Encode reads r fully and returns it as a base64 data URL. The content
// type is sniffed from the bytes; the client's declared type is ignored.
func (e *Encoder) Encode(r io.Reader) (*Encoded, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.InvalidInput("file is empty")
	}
	if int64(len(data)) > e.maxBytes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file exceeds maximum allowed size of %d bytes", e.maxBytes))
	}

	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	mt, ok := allowedTypes[mime]
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", mime))
	}

	return &Encoded{
		URL:       "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		MediaType: mt,
		MIME:      mime,
		Size:      int64(len(data)),
	}, nil
}
