package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfonso816/Tienda/internal/auth"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// LoginResult carries an issued admin token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminService authenticates the store administrator.
type AdminService struct {
	passwordHash string
	tokens       *auth.JWTManager
	logger       *slog.Logger
}

// NewAdminService creates an admin service checking passwords against a
// bcrypt hash.
func NewAdminService(passwordHash string, tokens *auth.JWTManager, logger *slog.Logger) *AdminService {
	return &AdminService{passwordHash: passwordHash, tokens: tokens, logger: logger}
}

// Login verifies password and issues a bearer token.
func (s *AdminService) Login(ctx context.Context, password string) (*LoginResult, error) {
	if s.passwordHash == "" || !auth.CheckPassword(s.passwordHash, password) {
		s.logger.WarnContext(ctx, "admin login rejected")
		return nil, apperrors.Unauthorized("invalid password")
	}

	token, exp, err := s.tokens.Generate(auth.AdminSubject)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "admin logged in")
	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

// ValidateToken returns the subject of a valid admin token.
func (s *AdminService) ValidateToken(token string) (string, error) {
	sub, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperrors.Unauthorized("invalid or expired token")
	}
	return sub, nil
}
