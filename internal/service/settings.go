package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/internal/repository"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// SettingsService reads and writes the site configuration.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo repository.SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the stored settings with empty presentation fields filled in.
// Defaults are served until an administrator saves a configuration.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			d := domain.DefaultSettings()
			return &d, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	out := stored.WithDefaults()
	return &out, nil
}

// Update replaces the site configuration.
func (s *SettingsService) Update(ctx context.Context, in domain.Settings) (*domain.Settings, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.WhatsApp = strings.TrimSpace(in.WhatsApp)
	if in.Name == "" {
		return nil, apperrors.InvalidInput("store name is required")
	}

	if err := s.repo.Update(ctx, in); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	s.logger.InfoContext(ctx, "settings updated",
		slog.String("name", in.Name),
		slog.Bool("whatsapp_set", in.WhatsApp != ""),
	)
	out := in.WithDefaults()
	return &out, nil
}
