package media

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
		kind domain.MediaType
	}{
		{"png", pngHeader, "image/png", domain.MediaImage},
		{"gif", gifHeader, "image/gif", domain.MediaImage},
		{"mp4", mp4Header, "video/mp4", domain.MediaVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncoder(0).Encode(bytes.NewReader(tt.data))

			require.NoError(t, err)
			assert.Equal(t, tt.mime, got.MIME)
			assert.Equal(t, tt.kind, got.MediaType)
			assert.Equal(t, int64(len(tt.data)), got.Size)

			prefix := "data:" + tt.mime + ";base64,"
			require.True(t, strings.HasPrefix(got.URL, prefix))
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got.URL, prefix))
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func TestEncode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		max  int64
		data []byte
	}{
		{"empty", 0, nil},
		{"plain text", 0, []byte("hello, this is not an image")},
		{"too large", 16, append(append([]byte{}, pngHeader...), make([]byte, 64)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(tt.max).Encode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestNewEncoder_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxBytes, NewEncoder(-1).MaxBytes())
	assert.Equal(t, int64(1024), NewEncoder(1024).MaxBytes())
}
