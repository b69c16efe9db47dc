package store

import (
	"context"

	"rental/internal/models"
)

type SettingsStore struct {
	db DB
}

func NewSettingsStore(db DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns sql.ErrNoRows until settings are saved for the first time.
func (s *SettingsStore) Get(ctx context.Context) (models.Settings, error) {
	var row models.Settings
	err := s.db.GetContext(ctx, &row, `SELECT app_name, currency, updated_at FROM settings WHERE id = 1`)
	return row, err
}

func (s *SettingsStore) Upsert(ctx context.Context, tx Execer, settings models.Settings) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, app_name, currency, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET app_name = EXCLUDED.app_name, currency = EXCLUDED.currency, updated_at = EXCLUDED.updated_at
	`, settings.AppName, settings.Currency, settings.UpdatedAt)
	return err
}
