package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alfonso816/Tienda/internal/domain"
	"github.com/alfonso816/Tienda/pkg/database"
	apperrors "github.com/alfonso816/Tienda/pkg/errors"
)

// SettingsRepository keeps the site configuration as a JSONB document in
// the settings table.
type SettingsRepository struct {
	db   database.DBTX
	inst *database.Instrument
}

// NewSettingsRepository creates a PostgreSQL-backed settings repository.
func NewSettingsRepository(db database.DBTX, inst *database.Instrument) *SettingsRepository {
	return &SettingsRepository{db: db, inst: inst}
}

// Get loads the site_config record.
func (r *SettingsRepository) Get(ctx context.Context) (_ *domain.Settings, err error) {
	query := `SELECT data FROM settings WHERE id = $1`
	ctx, end := r.inst.Start(ctx, "GetSettings", query)
	defer func() { end(err) }()

	var data []byte
	if err = r.db.QueryRow(ctx, query, domain.SettingsID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("settings", domain.SettingsID)
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	var s domain.Settings
	if err = json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &s, nil
}

// Update upserts the site_config record.
func (r *SettingsRepository) Update(ctx context.Context, s domain.Settings) (err error) {
	query := `
		INSERT INTO settings (id, data, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	ctx, end := r.inst.Start(ctx, "UpdateSettings", query)
	defer func() { end(err) }()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if _, err = r.db.Exec(ctx, query, domain.SettingsID, data); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
