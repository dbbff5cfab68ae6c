package rest

import (
	"context"
	"net/url"

	"github.com/alfonso816/Tienda/internal/domain"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

type settingsRow struct {
	ID   string          `json:"id,omitempty"`
	Data domain.Settings `json:"data"`
}

// SettingsRepository implements repository.SettingsRepository over
// PostgREST, keeping the record in the settings table's data column.
type SettingsRepository struct {
	c *Client
}

// NewSettingsRepository creates a REST-backed settings repository.
func NewSettingsRepository(c *Client) *SettingsRepository {
	return &SettingsRepository{c: c}
}

// Get loads the site_config row.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var rows []settingsRow
	q := url.Values{"select": {"data"}, "id": {eq(domain.SettingsID)}}
	if err := r.c.get(ctx, "settings", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("settings", domain.SettingsID)
	}
	return &rows[0].Data, nil
}

// Update upserts the site_config row.
func (r *SettingsRepository) Update(ctx context.Context, s domain.Settings) error {
	return r.c.insert(ctx, "settings", settingsRow{ID: domain.SettingsID, Data: s}, "resolution=merge-duplicates")
}
