package memory

import (
	"context"
	"sync"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// SettingsRepository implements repository.SettingsRepository in memory.
type SettingsRepository struct {
	mu sync.RWMutex
	s  *domain.Settings
}

// NewSettingsRepository returns a store holding initial, or nothing when
// initial is nil.
func NewSettingsRepository(initial *domain.Settings) *SettingsRepository {
	r := &SettingsRepository{}
	if initial != nil {
		s := *initial
		r.s = &s
	}
	return r
}

// Get returns the stored settings.
func (r *SettingsRepository) Get(_ context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.s == nil {
		return nil, apperrors.NotFound("settings", domain.SettingsID)
	}
	s := *r.s
	return &s, nil
}

// Update replaces the stored settings.
func (r *SettingsRepository) Update(_ context.Context, s domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = &s
	return nil
}
