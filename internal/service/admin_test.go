package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alfonso816/Tienda/internal/auth"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

func newTestAdminService(t *testing.T, password string) *AdminService {
	t.Helper()
	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(h)
	}
	tokens := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	return NewAdminService(hash, tokens, newTestLogger())
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAdminService(t, "s3cret")

	res, err := svc.Login(context.Background(), "s3cret")

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	sub, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminSubject, sub)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAdminService(t, "s3cret")

	_, err := svc.Login(context.Background(), "admin123")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_NotConfigured(t *testing.T) {
	svc := newTestAdminService(t, "")

	_, err := svc.Login(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestAdminService(t, "s3cret")

	_, err := svc.ValidateToken("garbage")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
